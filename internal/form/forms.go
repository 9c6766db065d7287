package form

import (
	"regexp"
	"strconv"
)

// Field names of the predefined forms.
type Field string

const (
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldRating    Field = "rating"
	FieldComment   Field = "comment"
)

var ratingPattern = regexp.MustCompile(`^[1-5]$`)

// SignInForm is the sign-in tab of the login dialog.
func SignInForm() *Manager[Field] {
	return New(
		map[Field]string{FieldEmail: "", FieldPassword: ""},
		map[Field]Rule{
			FieldEmail:    {Required: true, Message: "Email is required"},
			FieldPassword: {Required: true, Message: "Password is required"},
		},
	)
}

// SignUpForm is the sign-up tab of the login dialog.
func SignUpForm() *Manager[Field] {
	return New(
		map[Field]string{FieldFirstName: "", FieldLastName: "", FieldEmail: "", FieldPassword: ""},
		map[Field]Rule{
			FieldFirstName: {Required: true, Message: "Name is required"},
			FieldLastName:  {Required: true, Message: "Last name is required"},
			FieldEmail:     {Required: true, Message: "Please enter a valid email"},
			FieldPassword:  {Required: true, Message: "Password is required"},
		},
	)
}

// ReviewForm is the review box of the product dialog.
func ReviewForm() *Manager[Field] {
	return New(
		map[Field]string{FieldRating: "", FieldComment: ""},
		map[Field]Rule{
			FieldRating: {
				Required:        true,
				RequiredMessage: "Rating is required",
				Pattern:         ratingPattern,
				PatternMessage:  "Rating must be between 1 and 5",
			},
			FieldComment: {
				MinLength: 3,
				Message:   "Comment must be at least 3 characters",
			},
		},
	)
}

// Rating parses the rating field of a validated ReviewForm.
func Rating(m *Manager[Field]) int {
	n, err := strconv.Atoi(m.Value(FieldRating))
	if err != nil {
		return 0
	}
	return n
}
