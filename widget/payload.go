package widget

import (
	"fmt"
	"strings"

	"github.com/mbolis/quick-forms/model"
)

// Image is one uploaded file of an image field.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Warning is a rejected edit. The payload is left as it was.
type Warning struct {
	Label   string
	Message string
}

func (w *Warning) Error() string {
	if w.Label == "" {
		return w.Message
	}
	return w.Label + ": " + w.Message
}

// Payload holds the values entered for one filling of a form, keyed by field
// id. The value type depends on the field: string for text, number, email,
// date and selection, bool for checkbox, []string for array and []Image for
// image. Array fields additionally keep the text typed for the next item.
type Payload struct {
	values  map[string]any
	pending map[string]string
}

func NewPayload() *Payload {
	p := &Payload{}
	p.Reset()
	return p
}

func (p *Payload) Set(id string, value any) {
	switch v := value.(type) {
	case []string:
		value = append([]string(nil), v...)
	case []Image:
		value = append([]Image(nil), v...)
	}
	p.values[id] = value
}

func (p *Payload) Get(id string) (any, bool) {
	v, ok := p.values[id]
	return v, ok
}

func (p *Payload) Delete(id string) {
	delete(p.values, id)
}

// Len counts the fields holding a value.
func (p *Payload) Len() int {
	return len(p.values)
}

// Text returns the value of a scalar field as entered.
func (p *Payload) Text(id string) string {
	switch v := p.values[id].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (p *Payload) Bool(id string) bool {
	b, _ := p.values[id].(bool)
	return b
}

func (p *Payload) Items(id string) []string {
	items, _ := p.values[id].([]string)
	return items
}

func (p *Payload) Images(id string) []Image {
	images, _ := p.values[id].([]Image)
	return images
}

func (p *Payload) Pending(id string) string {
	return p.pending[id]
}

func (p *Payload) SetPending(id, text string) {
	p.pending[id] = text
}

// AppendItem moves the pending text of an array field into its list. Blank
// text is ignored. Text that doesn't match the item type, or that would go
// past the maximum item count, is rejected with a *Warning.
func (p *Payload) AppendItem(f model.Field) error {
	value := strings.TrimSpace(p.pending[f.ID])
	if value == "" {
		return nil
	}

	itemType := model.ItemString
	if f.ArrayConfig != nil {
		itemType = f.ArrayConfig.ItemType
	}
	if err := CheckItem(itemType, value); err != nil {
		return &Warning{Label: f.Label, Message: err.Error()}
	}

	items := p.Items(f.ID)
	if f.ArrayConfig != nil && f.ArrayConfig.MaxItems > 0 && len(items) >= f.ArrayConfig.MaxItems {
		return &Warning{
			Label:   f.Label,
			Message: fmt.Sprintf("accepts at most %d items", f.ArrayConfig.MaxItems),
		}
	}

	p.values[f.ID] = append(append([]string(nil), items...), value)
	p.pending[f.ID] = ""
	return nil
}

// RemoveItem drops the item at index; out of range indexes are ignored.
func (p *Payload) RemoveItem(id string, index int) {
	items := p.Items(id)
	if index < 0 || index >= len(items) {
		return
	}
	kept := make([]string, 0, len(items)-1)
	kept = append(kept, items[:index]...)
	kept = append(kept, items[index+1:]...)
	p.values[id] = kept
}

// Reset empties the payload, pending item text included.
func (p *Payload) Reset() {
	p.values = map[string]any{}
	p.pending = map[string]string{}
}
