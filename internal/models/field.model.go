package models

type Field string

const (
	FieldID            Field = "id"
	FieldFirstName     Field = "first_name"
	FieldMiddleName    Field = "middle_name"
	FieldLastName      Field = "last_name"
	FieldDateOfBirth   Field = "date_of_birth"
	FieldStatus        Field = "status"
	FieldStreetAddress Field = "street_address"
	FieldCity          Field = "city"
	FieldState         Field = "state"
	FieldZipCode       Field = "zip_code"
	FieldNotes         Field = "notes"
	FieldCreatedAt     Field = "created_at"

	// FieldAge is derived from date_of_birth and never stored.
	FieldAge Field = "age"
	// FieldAll selects every searchable field at once.
	FieldAll Field = "all"
)

// StoredFields lists the persisted columns in display order.
var StoredFields = []Field{
	FieldID,
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldDateOfBirth,
	FieldStatus,
	FieldStreetAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldNotes,
	FieldCreatedAt,
}

func (f Field) IsStored() bool {
	for _, field := range StoredFields {
		if f == field {
			return true
		}
	}
	return false
}

// IsChronological reports whether the field orders by time rather than text.
func (f Field) IsChronological() bool {
	return f == FieldCreatedAt || f == FieldDateOfBirth
}
