package models

// Field enumerates the editable landmark attributes.
type Field int

const (
	FieldName Field = iota + 1
	FieldAddress
	FieldCategory
	FieldDescription
	FieldHistory
	FieldLocation
	FieldImageName
)

// Fields lists every editable field in display order.
var Fields = []Field{
	FieldName, FieldAddress, FieldCategory, FieldDescription,
	FieldHistory, FieldLocation, FieldImageName,
}

var fieldLabels = map[Field]string{
	FieldName:        "Название",
	FieldAddress:     "Адрес",
	FieldCategory:    "Категория",
	FieldDescription: "Описание",
	FieldHistory:     "История",
	FieldLocation:    "Координаты",
	FieldImageName:   "Фото",
}

var fieldColumns = map[Field]string{
	FieldName:        "name",
	FieldAddress:     "address",
	FieldCategory:    "category",
	FieldDescription: "description",
	FieldHistory:     "history",
	FieldLocation:    "location",
	FieldImageName:   "images_name",
}

// Label is the button text shown to the operator.
func (f Field) Label() string { return fieldLabels[f] }

// Column is the landmark table column backing f.
func (f Field) Column() string { return fieldColumns[f] }

// ParseField maps a button label back to its Field.
func ParseField(label string) (Field, bool) {
	for f, l := range fieldLabels {
		if l == label {
			return f, true
		}
	}
	return 0, false
}

// FieldUpdate is a single-field change. The set of implementations is closed.
type FieldUpdate interface {
	Field() Field
	// ApplyTo writes the new value into l.
	ApplyTo(l *Landmark)
	isFieldUpdate()
}

type NameUpdate struct{ Value string }
type AddressUpdate struct{ Value string }
type CategoryUpdate struct{ Value string }
type DescriptionUpdate struct{ Value string }
type HistoryUpdate struct{ Value string }
type LocationUpdate struct{ Value Location }
type ImageNameUpdate struct{ Value string }

func (NameUpdate) Field() Field        { return FieldName }
func (AddressUpdate) Field() Field     { return FieldAddress }
func (CategoryUpdate) Field() Field    { return FieldCategory }
func (DescriptionUpdate) Field() Field { return FieldDescription }
func (HistoryUpdate) Field() Field     { return FieldHistory }
func (LocationUpdate) Field() Field    { return FieldLocation }
func (ImageNameUpdate) Field() Field   { return FieldImageName }

func (u NameUpdate) ApplyTo(l *Landmark)        { l.Name = u.Value }
func (u AddressUpdate) ApplyTo(l *Landmark)     { l.Address = u.Value }
func (u CategoryUpdate) ApplyTo(l *Landmark)    { l.Category = u.Value }
func (u DescriptionUpdate) ApplyTo(l *Landmark) { l.Description = u.Value }
func (u HistoryUpdate) ApplyTo(l *Landmark)     { l.History = u.Value }
func (u LocationUpdate) ApplyTo(l *Landmark)    { l.Location = u.Value }
func (u ImageNameUpdate) ApplyTo(l *Landmark)   { l.ImageName = u.Value }

func (NameUpdate) isFieldUpdate()        {}
func (AddressUpdate) isFieldUpdate()     {}
func (CategoryUpdate) isFieldUpdate()    {}
func (DescriptionUpdate) isFieldUpdate() {}
func (HistoryUpdate) isFieldUpdate()     {}
func (LocationUpdate) isFieldUpdate()    {}
func (ImageNameUpdate) isFieldUpdate()   {}

// NewTextUpdate builds the update for a free-text field. It returns false
// for FieldLocation, which needs a parsed Location.
func NewTextUpdate(f Field, value string) (FieldUpdate, bool) {
	switch f {
	case FieldName:
		return NameUpdate{Value: value}, true
	case FieldAddress:
		return AddressUpdate{Value: value}, true
	case FieldCategory:
		return CategoryUpdate{Value: value}, true
	case FieldDescription:
		return DescriptionUpdate{Value: value}, true
	case FieldHistory:
		return HistoryUpdate{Value: value}, true
	case FieldImageName:
		return ImageNameUpdate{Value: value}, true
	}
	return nil, false
}
