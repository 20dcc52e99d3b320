// Package events carries card lifecycle notifications out of the service
// layer.
//
// Services emit a CardEvent after a change has been committed. The
// InMemoryEventEmitter fans each event out to registered handlers, such as the
// KafkaPublisher or the LogHandler, without the service knowing which are
// present.
package events
