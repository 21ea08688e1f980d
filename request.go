package main

// Action selects what an invocation does to the target bucket.
type Action string

const (
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
	ActionDelete Action = "Delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Populates reports whether the action syncs an archive into the bucket.
func (a Action) Populates() bool {
	return a == ActionCreate || a == ActionUpdate
}

// InvocationRequest is one handler call. It is built from the platform
// event and never modified afterwards.
type InvocationRequest struct {
	Action     Action
	Bucket     string
	ArchiveKey string
	ObjectACL  string
}

// Validate checks the request without any side effect.
func (r InvocationRequest) Validate() error {
	if !r.Action.Valid() {
		return &InvalidActionError{Action: string(r.Action)}
	}
	if r.Bucket == "" {
		return &RequestError{Field: "Bucket", Action: r.Action}
	}
	if r.Action.Populates() && r.ArchiveKey == "" {
		return &RequestError{Field: "ArchiveKey", Action: r.Action}
	}

	return nil
}

// InvocationEvent is the payload delivered by the function platform.
type InvocationEvent struct {
	Action     string `json:"Action"`
	Bucket     string `json:"Bucket"`
	ArchiveKey string `json:"ArchiveKey"`
	ObjectAcl  string `json:"ObjectAcl,omitempty"`
}

func (e InvocationEvent) Request() InvocationRequest {
	return InvocationRequest{
		Action:     Action(e.Action),
		Bucket:     e.Bucket,
		ArchiveKey: e.ArchiveKey,
		ObjectACL:  e.ObjectAcl,
	}
}
