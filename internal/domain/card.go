package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Card field limits.
const (
	MinCardNameLength    = 5
	MaxCardNameLength    = 50
	MaxDescriptionLength = 150
)

var hexColorPattern = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// IsHexColor reports whether s is a #RRGGBB color code.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// Card is a task owned by the user who created it.
//
// Name and Color are stored upper-cased. Description and Color are nil when
// not set. The audit fields (CreatedAt, ModifiedAt, CreatedByID, ModifiedByID)
// are written only by the audit stamper.
type Card struct {
	ID           uint64       `json:"card_id,string"`
	Name         string       `json:"name"`
	Description  *string      `json:"description"`
	Color        *string      `json:"color"`
	StatusID     CardStatusID `json:"status_id"`
	CreatedByID  uint64       `json:"created_by_id,string"`
	ModifiedByID *uint64      `json:"modified_by_id,omitempty,string"`
	CreatedAt    time.Time    `json:"created_at"`
	ModifiedAt   time.Time    `json:"modified_at"`
}

// CardChanges carries a partial update. A nil field leaves the card unchanged.
// An empty Description or Color clears it. A blank Name is ignored.
type CardChanges struct {
	Name        *string
	Description *string
	Color       *string
	StatusID    *CardStatusID
}

// ValidateNewCard reports the first field NewCard would reject, before an id
// has been allocated.
func ValidateNewCard(name string, description, color *string) error {
	if _, err := normalizeName(name); err != nil {
		return err
	}
	if _, err := normalizeDescription(description); err != nil {
		return err
	}
	_, err := normalizeColor(color)
	return err
}

// NewCard creates a card in the ToDo status after normalizing and validating
// its fields. The audit fields are left for the stamper.
func NewCard(id uint64, name string, description, color *string) (*Card, error) {
	if id == 0 {
		return nil, NewValidationError("CardId", "CardId must be provided", ErrRequiredField)
	}

	normalizedName, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	normalizedDescription, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}

	normalizedColor, err := normalizeColor(color)
	if err != nil {
		return nil, err
	}

	return &Card{
		ID:          id,
		Name:        normalizedName,
		Description: normalizedDescription,
		Color:       normalizedColor,
		StatusID:    StatusToDo,
	}, nil
}

// Validate checks the provided changes on their own, without a card to apply
// them to.
func (ch CardChanges) Validate() error {
	var probe Card
	return probe.Apply(ch)
}

// Apply validates every provided change and then applies them together.
// On error the card is left untouched.
func (c *Card) Apply(changes CardChanges) error {
	name := c.Name
	if changes.Name != nil && strings.TrimSpace(*changes.Name) != "" {
		n, err := normalizeName(*changes.Name)
		if err != nil {
			return err
		}
		name = n
	}

	description := c.Description
	if changes.Description != nil {
		d, err := normalizeDescription(changes.Description)
		if err != nil {
			return err
		}
		description = d
	}

	color := c.Color
	if changes.Color != nil {
		col, err := normalizeColor(changes.Color)
		if err != nil {
			return err
		}
		color = col
	}

	status := c.StatusID
	if changes.StatusID != nil {
		if !changes.StatusID.Valid() {
			return NewValidationError("CardStatus", "Invalid CardStatus provided", ErrInvalidValue)
		}
		status = *changes.StatusID
	}

	c.Name = name
	c.Description = description
	c.Color = color
	c.StatusID = status
	return nil
}

// Validate checks the invariants a card must satisfy before it is written.
func (c *Card) Validate() error {
	if c.ID == 0 {
		return NewValidationError("CardId", "CardId must be provided", ErrRequiredField)
	}
	if c.Name == "" {
		return NewValidationError("Name", "Name must be provided to complete this request", ErrRequiredField)
	}
	if n := utf8.RuneCountInString(c.Name); n < MinCardNameLength || n > MaxCardNameLength {
		return NewValidationError("Name", "Name should be between 5-50 characters", ErrInvalidValue)
	}
	if c.Description != nil && utf8.RuneCountInString(*c.Description) > MaxDescriptionLength {
		return NewValidationError("Description", "Description max length is 150 characters", ErrInvalidValue)
	}
	if c.Color != nil && !IsHexColor(*c.Color) {
		return NewValidationError("Color", fmt.Sprintf("Invalid color code '%s' provided", *c.Color), ErrInvalidValue)
	}
	if !c.StatusID.Valid() {
		return NewValidationError("CardStatus", "Invalid CardStatus provided", ErrInvalidValue)
	}
	if c.CreatedByID == 0 {
		return NewValidationError("CreatedById", "CreatedById must be provided", ErrRequiredField)
	}
	if c.ModifiedAt.Before(c.CreatedAt) {
		return NewValidationError("ModifiedAt", "ModifiedAt cannot precede CreatedAt", ErrInvalidValue)
	}
	return nil
}

// OwnerID returns the id of the user the card belongs to.
func (c *Card) OwnerID() uint64 {
	return c.CreatedByID
}

// SetCreatedAt implements audit.Auditable.
func (c *Card) SetCreatedAt(t time.Time) { c.CreatedAt = t }

// SetModifiedAt implements audit.Auditable.
func (c *Card) SetModifiedAt(t time.Time) { c.ModifiedAt = t }

// CreationTime implements audit.Auditable.
func (c *Card) CreationTime() time.Time { return c.CreatedAt }

// SetCreatedByID implements audit.AuditableWithActor.
func (c *Card) SetCreatedByID(id uint64) { c.CreatedByID = id }

// SetModifiedByID implements audit.AuditableWithActor.
func (c *Card) SetModifiedByID(id uint64) { c.ModifiedByID = &id }

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", NewValidationError("Name", "Name must be provided to complete this request", ErrRequiredField)
	}
	if n := utf8.RuneCountInString(name); n < MinCardNameLength || n > MaxCardNameLength {
		return "", NewValidationError("Name", "Name should be between 5-50 characters", ErrInvalidValue)
	}
	return strings.ToUpper(name), nil
}

func normalizeDescription(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	description := strings.TrimSpace(*raw)
	if description == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, NewValidationError("Description", "Description max length is 150 characters", ErrInvalidValue)
	}
	return &description, nil
}

func normalizeColor(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	color := strings.ToUpper(strings.TrimSpace(*raw))
	if color == "" {
		return nil, nil
	}
	if !IsHexColor(color) {
		return nil, NewValidationError("Color", fmt.Sprintf("Invalid color code '%s' provided", color), ErrInvalidValue)
	}
	return &color, nil
}
