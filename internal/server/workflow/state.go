package workflow

// State is the cursor of an in-progress entry.
type State int

const (
	AwaitingLogin State = iota + 1
	AwaitingPassword
	AwaitingName
	AwaitingAddress
	AwaitingCategory
	AwaitingDescription
	AwaitingHistory
	AwaitingLocation
	AwaitingPhoto
	AwaitingImageName

	SelectField
	EditValue
	EditImageName

	Complete
)

var stateNames = map[State]string{
	AwaitingLogin:       "awaiting_login",
	AwaitingPassword:    "awaiting_password",
	AwaitingName:        "awaiting_name",
	AwaitingAddress:     "awaiting_address",
	AwaitingCategory:    "awaiting_category",
	AwaitingDescription: "awaiting_description",
	AwaitingHistory:     "awaiting_history",
	AwaitingLocation:    "awaiting_location",
	AwaitingPhoto:       "awaiting_photo",
	AwaitingImageName:   "awaiting_image_name",
	SelectField:         "select_field",
	EditValue:           "edit_value",
	EditImageName:       "edit_image_name",
	Complete:            "complete",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// needsSession reports whether input in s is only accepted from an
// authorized user.
func (s State) needsSession() bool {
	return s != AwaitingLogin && s != AwaitingPassword && s != Complete
}

// Flow distinguishes the intake conversation from the edit sub-flow.
type Flow int

const (
	FlowIntake Flow = iota + 1
	FlowEdit
	// FlowEditAll walks the text fields of an existing landmark and writes
	// them back in one update.
	FlowEditAll
)

func (f Flow) String() string {
	switch f {
	case FlowIntake:
		return "intake"
	case FlowEdit:
		return "edit"
	case FlowEditAll:
		return "edit_all"
	}
	return "unknown"
}
