package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       InvocationRequest
		wantField string
		wantValid bool
	}{
		{"create", InvocationRequest{Action: ActionCreate, Bucket: "b", ArchiveKey: "k"}, "", true},
		{"update with acl", InvocationRequest{Action: ActionUpdate, Bucket: "b", ArchiveKey: "k", ObjectACL: "private"}, "", true},
		{"delete needs no key", InvocationRequest{Action: ActionDelete, Bucket: "b"}, "", true},
		{"create without key", InvocationRequest{Action: ActionCreate, Bucket: "b"}, "ArchiveKey", false},
		{"delete without bucket", InvocationRequest{Action: ActionDelete}, "Bucket", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			var requestErr *RequestError
			require.True(t, errors.As(err, &requestErr))
			assert.Equal(t, tt.wantField, requestErr.Field)
		})
	}
}

func TestValidateUnknownAction(t *testing.T) {
	for _, action := range []Action{"", "create", "Destroy"} {
		err := InvocationRequest{Action: action, Bucket: "b", ArchiveKey: "k"}.Validate()

		var actionErr *InvalidActionError
		assert.True(t, errors.As(err, &actionErr), "action %q", action)
	}
}

func TestInvocationEventPayload(t *testing.T) {
	payload := `{"Action": "Update", "Bucket": "content-bucket", "ArchiveKey": "__archivesync.archive.tar.gz", "ObjectAcl": null}`

	var event InvocationEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	assert.Equal(t, InvocationRequest{
		Action:     ActionUpdate,
		Bucket:     "content-bucket",
		ArchiveKey: "__archivesync.archive.tar.gz",
	}, event.Request())
}

func TestInvocationEventWithACL(t *testing.T) {
	payload := `{"Action": "Create", "Bucket": "content-bucket", "ArchiveKey": "a.tgz", "ObjectAcl": "public-read"}`

	var event InvocationEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	assert.Equal(t, "public-read", event.Request().ObjectACL)
	assert.True(t, event.Request().Action.Populates())
}
