// Package student defines the roster record and the rules that decide
// whether raw command-line input is a well-formed record.
package student

// Student is one row of the canonical five-column roster.
type Student struct {
	ID        string `json:"id"`         // Five ASCII digits, primary key
	FirstName string `json:"first_name"` // 1-10 letters or hyphens
	LastName  string `json:"last_name"`  // 1-10 letters or hyphens
	Gender    string `json:"gender"`     // "M" or "F"
	Class     string `json:"class"`      // Single uppercase letter
}

// Columns lists the canonical column names in table order.
var Columns = []string{"id", "first_name", "last_name", "gender", "class"}

// Fields returns the record's values in Columns order.
func (s Student) Fields() []string {
	return []string{s.ID, s.FirstName, s.LastName, s.Gender, s.Class}
}

// FullName returns "First Last".
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// FromColumns builds a Student from a column-name to value map.
// Unknown columns are ignored and missing ones are left empty.
func FromColumns(values map[string]string) Student {
	return Student{
		ID:        values["id"],
		FirstName: values["first_name"],
		LastName:  values["last_name"],
		Gender:    values["gender"],
		Class:     values["class"],
	}
}

// Parse validates raw values in column order and returns the trimmed record.
// The first failing field is reported as a *ValidationError.
func Parse(id, firstName, lastName, gender, class string) (Student, error) {
	var s Student
	var err error

	if s.ID, err = ValidateID(id); err != nil {
		return Student{}, err
	}
	if s.FirstName, err = ValidatePersonalName(FieldFirstName, firstName); err != nil {
		return Student{}, err
	}
	if s.LastName, err = ValidatePersonalName(FieldLastName, lastName); err != nil {
		return Student{}, err
	}
	if s.Gender, err = ValidateGender(gender); err != nil {
		return Student{}, err
	}
	if s.Class, err = ValidateClass(class); err != nil {
		return Student{}, err
	}
	return s, nil
}

// ParseArgs validates the five positional values id, first, last, gender, class.
func ParseArgs(args []string) (Student, error) {
	if len(args) != len(Columns) {
		return Student{}, &ArgCountError{Want: len(Columns), Got: len(args)}
	}
	return Parse(args[0], args[1], args[2], args[3], args[4])
}

// Validate re-checks a record that did not come through Parse, such as one
// read from an import file. It returns the normalized record.
func (s Student) Validate() (Student, error) {
	return Parse(s.ID, s.FirstName, s.LastName, s.Gender, s.Class)
}
