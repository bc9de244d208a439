package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity IDs carry their type in a prefix ("client-<uuid>", "doc-<uuid>").
// ClientID and DocumentID are distinct types so a document ID can never be
// passed where a client ID is expected.

const (
	clientIDPrefix   = "client-"
	documentIDPrefix = "doc-"
)

type ClientID string

type DocumentID string

// NewClientID generates a fresh prefixed client ID.
func NewClientID() ClientID {
	return ClientID(clientIDPrefix + uuid.NewString())
}

// NewDocumentID generates a fresh prefixed document ID.
func NewDocumentID() DocumentID {
	return DocumentID(documentIDPrefix + uuid.NewString())
}

// ParseClientID validates the prefix of a raw path parameter.
func ParseClientID(s string) (ClientID, error) {
	if !strings.HasPrefix(s, clientIDPrefix) || len(s) == len(clientIDPrefix) {
		return "", fmt.Errorf("invalid client id: %q", s)
	}
	return ClientID(s), nil
}

// ParseDocumentID validates the prefix of a raw path parameter.
func ParseDocumentID(s string) (DocumentID, error) {
	if !strings.HasPrefix(s, documentIDPrefix) || len(s) == len(documentIDPrefix) {
		return "", fmt.Errorf("invalid document id: %q", s)
	}
	return DocumentID(s), nil
}

func (id ClientID) String() string   { return string(id) }
func (id DocumentID) String() string { return string(id) }
