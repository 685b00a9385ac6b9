package widget

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/model"
)

const dateLayout = "2006-01-02"

// CheckItem validates the text of one array item against its item type.
func CheckItem(t model.ItemType, s string) error {
	switch t {
	case model.ItemNumber:
		if checkNumber(s) != nil {
			return errors.New("Please enter a valid number")
		}
	case model.ItemEmail:
		if !strings.Contains(s, "@") {
			return errors.New("Please enter a valid email address")
		}
	}
	return nil
}

func checkString(string) error {
	return nil
}

func checkNumber(s string) error {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || isHex(s) {
		return errors.Errorf("%q is not a number", s)
	}
	return nil
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func checkDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return errors.Errorf("%q is not a date (YYYY-MM-DD)", s)
	}
	return nil
}

func missingScalar(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}

func scalarText(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64, float32, int, int64:
		return fmt.Sprint(v), true
	}
	return "", false
}

func decodeFirst(f model.Field, form *multipart.Form) (any, bool, error) {
	values := form.Value[f.ID]
	if len(values) == 0 {
		return nil, false, nil
	}
	return values[0], true, nil
}

func encodeScalar(w *multipart.Writer, f model.Field, v any) error {
	s, ok := scalarText(v)
	if !ok {
		return errors.Errorf("field %s: cannot encode %T", f.ID, v)
	}
	return w.WriteField(f.ID, s)
}

type scalarKind struct {
	input string
	check func(string) error
}

func (k scalarKind) Control(f model.Field, p *Payload) (Control, bool) {
	return Control{Input: k.input, Value: p.Text(f.ID)}, true
}

func (scalarKind) Missing(v any) bool {
	return missingScalar(v)
}

func (k scalarKind) Check(f model.Field, v any) error {
	s, ok := scalarText(v)
	if !ok {
		return errors.Errorf("unexpected value of type %T", v)
	}
	return k.check(s)
}

func (scalarKind) Encode(w *multipart.Writer, f model.Field, v any) error {
	return encodeScalar(w, f, v)
}

func (scalarKind) Decode(f model.Field, form *multipart.Form) (any, bool, error) {
	return decodeFirst(f, form)
}

type checkboxKind struct{}

func (checkboxKind) Control(f model.Field, p *Payload) (Control, bool) {
	return Control{Input: "checkbox", Checked: p.Bool(f.ID)}, true
}

// Missing only fails on absence: an unchecked box is a value.
func (checkboxKind) Missing(v any) bool {
	return v == nil
}

func (checkboxKind) Check(f model.Field, v any) error {
	if _, ok := v.(bool); !ok {
		return errors.Errorf("unexpected value of type %T", v)
	}
	return nil
}

func (checkboxKind) Encode(w *multipart.Writer, f model.Field, v any) error {
	b, ok := v.(bool)
	if !ok {
		return errors.Errorf("field %s: cannot encode %T", f.ID, v)
	}
	return w.WriteField(f.ID, strconv.FormatBool(b))
}

func (checkboxKind) Decode(f model.Field, form *multipart.Form) (any, bool, error) {
	values := form.Value[f.ID]
	if len(values) == 0 {
		return nil, false, nil
	}
	// A rendered box posts a hidden "false" before its own value, so any
	// true value wins.
	checked := false
	for _, v := range values {
		if v == "on" {
			checked = true
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, false, errors.Errorf("%q is not a checkbox value", v)
		}
		checked = checked || b
	}
	return checked, true, nil
}

type selectionKind struct{}

func (selectionKind) Control(f model.Field, p *Payload) (Control, bool) {
	choices := f.Choices()
	if len(choices) == 0 {
		return Control{}, false
	}
	value := p.Text(f.ID)
	options := make([]Option, len(choices))
	for i, c := range choices {
		options[i] = Option{Value: c, Selected: c == value}
	}
	return Control{Input: "select", Value: value, Options: options}, true
}

func (selectionKind) Missing(v any) bool {
	return missingScalar(v)
}

func (selectionKind) Check(f model.Field, v any) error {
	s, ok := v.(string)
	if !ok {
		return errors.Errorf("unexpected value of type %T", v)
	}
	for _, c := range f.Choices() {
		if c == s {
			return nil
		}
	}
	return errors.Errorf("%q is not one of the options", s)
}

func (selectionKind) Encode(w *multipart.Writer, f model.Field, v any) error {
	return encodeScalar(w, f, v)
}

func (selectionKind) Decode(f model.Field, form *multipart.Form) (any, bool, error) {
	return decodeFirst(f, form)
}

type arrayKind struct{}

func (arrayKind) Control(f model.Field, p *Payload) (Control, bool) {
	itemInput := "text"
	if f.ArrayConfig != nil {
		switch f.ArrayConfig.ItemType {
		case model.ItemNumber:
			itemInput = "number"
		case model.ItemEmail:
			itemInput = "email"
		}
	}
	return Control{
		Input:       "list",
		Items:       p.Items(f.ID),
		Pending:     p.Pending(f.ID),
		PendingName: PendingName(f.ID),
		ItemInput:   itemInput,
		Placeholder: "Add a " + f.Label,
	}, true
}

func (arrayKind) Missing(v any) bool {
	items, ok := v.([]string)
	return !ok || len(items) == 0
}

func (arrayKind) Check(f model.Field, v any) error {
	items, ok := v.([]string)
	if !ok {
		return errors.Errorf("unexpected value of type %T", v)
	}
	itemType := model.ItemString
	if cfg := f.ArrayConfig; cfg != nil {
		itemType = cfg.ItemType
		if cfg.MaxItems > 0 && len(items) > cfg.MaxItems {
			return errors.Errorf("at most %d items are accepted", cfg.MaxItems)
		}
	}
	for _, item := range items {
		if err := CheckItem(itemType, item); err != nil {
			return errors.Wrapf(err, "item %q", item)
		}
	}
	return nil
}

func (arrayKind) Encode(w *multipart.Writer, f model.Field, v any) error {
	items, ok := v.([]string)
	if !ok {
		return errors.Errorf("field %s: cannot encode %T", f.ID, v)
	}
	for _, item := range items {
		if err := w.WriteField(f.ID, item); err != nil {
			return err
		}
	}
	return nil
}

// Decode drops blank entries, which plain HTML forms send for an empty
// "next item" input.
func (arrayKind) Decode(f model.Field, form *multipart.Form) (any, bool, error) {
	values, ok := form.Value[f.ID]
	if !ok {
		return nil, false, nil
	}
	items := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	return items, true, nil
}

type imageKind struct{}

func (imageKind) Control(f model.Field, p *Payload) (Control, bool) {
	images := p.Images(f.ID)
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = img.Filename
	}
	return Control{Input: "file", Accept: "image/*", Multiple: true, Items: names}, true
}

func (imageKind) Missing(v any) bool {
	images, ok := v.([]Image)
	return !ok || len(images) == 0
}

func (imageKind) Check(f model.Field, v any) error {
	images, ok := v.([]Image)
	if !ok {
		return errors.Errorf("unexpected value of type %T", v)
	}
	for _, img := range images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return errors.Errorf("%s is not an image", img.Filename)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (imageKind) Encode(w *multipart.Writer, f model.Field, v any) error {
	images, ok := v.([]Image)
	if !ok {
		return errors.Errorf("field %s: cannot encode %T", f.ID, v)
	}
	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.ID), quoteEscaper.Replace(img.Filename)))
		h.Set("Content-Type", img.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(img.Data); err != nil {
			return err
		}
	}
	return nil
}

func (imageKind) Decode(f model.Field, form *multipart.Form) (any, bool, error) {
	headers := form.File[f.ID]
	images := make([]Image, 0, len(headers))
	for _, fh := range headers {
		// file input left empty
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		img, err := readImage(fh)
		if err != nil {
			return nil, false, errors.Wrapf(err, "read %s", fh.Filename)
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, false, nil
	}
	return images, true, nil
}

func readImage(fh *multipart.FileHeader) (Image, error) {
	file, err := fh.Open()
	if err != nil {
		return Image{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Image{}, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Image{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}
