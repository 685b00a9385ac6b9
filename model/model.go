package model

import (
	"strings"
	"time"
)

type FieldType string

const (
	Text      FieldType = "text"
	Number    FieldType = "number"
	Email     FieldType = "email"
	Date      FieldType = "date"
	Checkbox  FieldType = "checkbox"
	Selection FieldType = "selection"
	Array     FieldType = "array"
	// Image is never offered by the authoring wizard, but forms persisted
	// with it are still rendered and accepted.
	Image FieldType = "image"
)

// AuthoringTypes lists the field types an author may pick.
var AuthoringTypes = []FieldType{Text, Number, Email, Date, Checkbox, Selection, Array}

func (t FieldType) Valid() bool {
	switch t {
	case Text, Number, Email, Date, Checkbox, Selection, Array, Image:
		return true
	}
	return false
}

type ItemType string

const (
	ItemString ItemType = "string"
	ItemNumber ItemType = "number"
	ItemEmail  ItemType = "email"
)

func (t ItemType) Valid() bool {
	return t == ItemString || t == ItemNumber || t == ItemEmail
}

type ArrayConfig struct {
	ItemType ItemType `json:"itemType" yaml:"itemType"`
	MinItems int      `json:"minItems" yaml:"minItems"`
	MaxItems int      `json:"maxItems" yaml:"maxItems"`
}

// DefaultArrayConfig is what a freshly added field starts with.
func DefaultArrayConfig() *ArrayConfig {
	return &ArrayConfig{ItemType: ItemString, MinItems: 1, MaxItems: 10}
}

type Field struct {
	ID          string       `json:"id,omitempty"`
	Label       string       `json:"label"`
	Type        FieldType    `json:"type"`
	Category    string       `json:"category"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	Selections  []string     `json:"selections,omitempty"`
	ArrayConfig *ArrayConfig `json:"arrayConfig,omitempty"`
}

// Choices resolves the option list of a selection field: selections when
// non-empty, the legacy options otherwise.
func (f Field) Choices() []string {
	src := f.Selections
	if len(src) == 0 {
		src = f.Options
	}
	if len(src) == 0 {
		return nil
	}
	return append([]string(nil), src...)
}

type Status string

const (
	Active Status = "active"
	Closed Status = "closed"
)

type ShareSetting string

const (
	Public  ShareSetting = "public"
	Private ShareSetting = "private"
)

type Form struct {
	ID            string       `json:"id,omitempty"`
	Version       int          `json:"version,omitempty"`
	Topic         string       `json:"topic"`
	Description   string       `json:"description"`
	Categories    []string     `json:"categories"`
	Status        Status       `json:"status,omitempty"`
	Submissions   int          `json:"submissions,omitempty"`
	AccessMode    ShareSetting `json:"accessMode,omitempty"`
	ResponseDraft string       `json:"responseDraft,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time   `json:"updatedAt,omitempty"`
	Fields        []Field      `json:"fields"`
}

// Field looks a field up by id.
func (form Form) Field(id string) (Field, bool) {
	for _, f := range form.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

type PublishSettings struct {
	ShareSetting  ShareSetting `json:"shareSetting"`
	AccessCode    string       `json:"accessCode,omitempty"`
	ResponseDraft string       `json:"responseDraft,omitempty"`
}

func DefaultPublishSettings() PublishSettings {
	return PublishSettings{ShareSetting: Private}
}

// CreateRequest is the body of a publish call.
type CreateRequest struct {
	FormData    Form            `json:"formData"`
	PublishData PublishSettings `json:"publishData"`
}

type Submission struct {
	ID     int                        `json:"id"`
	Time   time.Time                  `json:"time"`
	IP     string                     `json:"ip"`
	Fields map[string]SubmissionField `json:"fields"`
	Images []SubmissionImage          `json:"images,omitempty"`
}

type SubmissionField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

type SubmissionImage struct {
	ID          int    `json:"id"`
	FieldID     string `json:"fieldId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

const categorySeparator = ","

// JoinCategories flattens categories into the stored column format.
func JoinCategories(categories []string) string {
	return strings.Join(categories, categorySeparator)
}

func SplitCategories(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, categorySeparator)
}
