package event_bus

const UserRegisteredEvent EventType = "user.registered"

// UserRegistered is published once a new user is stored. FamilyName is the household name the user
// entered on the registration form, it may be empty.
type UserRegistered struct {
	UserId      int
	Username    string
	DisplayName string
	FamilyName  string
}
