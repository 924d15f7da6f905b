package docrpc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed reports a Struct body that lacks a required field or holds a
// value of the wrong kind.
var ErrMalformed = errors.New("malformed message")

// Credentials is the body of Register and Login.
type Credentials struct {
	Username string
	Password string
}

// Account is the response of Register, Login and SetPremium.
type Account struct {
	UserID    string
	Username  string
	Token     string
	IsPremium bool
}

// PremiumRequest is the body of SetPremium.
type PremiumRequest struct {
	IsPremium bool
}

// ListRequest asks for every document in Collection whose userId is UserID.
type ListRequest struct {
	Collection string
	UserID     string
}

type InsertRequest struct {
	Collection string
	Document   map[string]any
}

type UpdateRequest struct {
	Collection string
	ID         string
	Document   map[string]any
}

type DeleteRequest struct {
	Collection string
	ID         string
}

// PresignRequest asks for an upload URL for an export file.
type PresignRequest struct {
	FileName string
}

type PresignResponse struct {
	URL string
	Key string
}

func (m Credentials) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"username": m.Username, "password": m.Password})
}

func ParseCredentials(s *structpb.Struct) (Credentials, error) {
	var (
		m   Credentials
		err error
	)
	if m.Username, err = str(s, "username"); err != nil {
		return m, err
	}
	m.Password, err = str(s, "password")
	return m, err
}

func (m Account) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"userId":    m.UserID,
		"username":  m.Username,
		"token":     m.Token,
		"isPremium": m.IsPremium,
	})
}

func ParseAccount(s *structpb.Struct) (Account, error) {
	var (
		m   Account
		err error
	)
	if m.UserID, err = str(s, "userId"); err != nil {
		return m, err
	}
	if m.Username, err = str(s, "username"); err != nil {
		return m, err
	}
	if m.Token, err = str(s, "token"); err != nil {
		return m, err
	}
	m.IsPremium, err = boolean(s, "isPremium")
	return m, err
}

func (m PremiumRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"isPremium": m.IsPremium})
}

func ParsePremiumRequest(s *structpb.Struct) (PremiumRequest, error) {
	v, err := boolean(s, "isPremium")
	return PremiumRequest{IsPremium: v}, err
}

func (m ListRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"collection": m.Collection, "userId": m.UserID})
}

func ParseListRequest(s *structpb.Struct) (ListRequest, error) {
	var (
		m   ListRequest
		err error
	)
	if m.Collection, err = str(s, "collection"); err != nil {
		return m, err
	}
	m.UserID, err = str(s, "userId")
	return m, err
}

// ListResponse builds the List reply from raw documents.
func ListResponse(docs []map[string]any) (*structpb.Struct, error) {
	items := make([]any, len(docs))
	for i, d := range docs {
		items[i] = d
	}
	return structpb.NewStruct(map[string]any{"documents": items})
}

// ParseListResponse returns the raw documents of a List reply. Entries that
// are not objects are returned as errors alongside the valid documents.
func ParseListResponse(s *structpb.Struct) ([]map[string]any, []error, error) {
	v, ok := s.GetFields()["documents"]
	if !ok {
		return nil, nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, nil, fmt.Errorf("%w: documents is not a list", ErrMalformed)
	}

	var (
		docs []map[string]any
		bad  []error
	)
	for i, item := range list.GetValues() {
		obj := item.GetStructValue()
		if obj == nil {
			bad = append(bad, fmt.Errorf("%w: document %d is not an object", ErrMalformed, i))
			continue
		}
		docs = append(docs, obj.AsMap())
	}
	return docs, bad, nil
}

func (m InsertRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"collection": m.Collection, "document": m.Document})
}

func ParseInsertRequest(s *structpb.Struct) (InsertRequest, error) {
	var (
		m   InsertRequest
		err error
	)
	if m.Collection, err = str(s, "collection"); err != nil {
		return m, err
	}
	m.Document, err = object(s, "document")
	return m, err
}

// InsertResponse carries the id the store assigned.
func InsertResponse(id string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": id})
}

func ParseInsertResponse(s *structpb.Struct) (string, error) {
	return str(s, "id")
}

func (m UpdateRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"collection": m.Collection, "id": m.ID, "document": m.Document})
}

func ParseUpdateRequest(s *structpb.Struct) (UpdateRequest, error) {
	var (
		m   UpdateRequest
		err error
	)
	if m.Collection, err = str(s, "collection"); err != nil {
		return m, err
	}
	if m.ID, err = str(s, "id"); err != nil {
		return m, err
	}
	m.Document, err = object(s, "document")
	return m, err
}

func (m DeleteRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"collection": m.Collection, "id": m.ID})
}

func ParseDeleteRequest(s *structpb.Struct) (DeleteRequest, error) {
	var (
		m   DeleteRequest
		err error
	)
	if m.Collection, err = str(s, "collection"); err != nil {
		return m, err
	}
	m.ID, err = str(s, "id")
	return m, err
}

func (m PresignRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"fileName": m.FileName})
}

func ParsePresignRequest(s *structpb.Struct) (PresignRequest, error) {
	v, err := str(s, "fileName")
	return PresignRequest{FileName: v}, err
}

func (m PresignResponse) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"url": m.URL, "key": m.Key})
}

func ParsePresignResponse(s *structpb.Struct) (PresignResponse, error) {
	var (
		m   PresignResponse
		err error
	)
	if m.URL, err = str(s, "url"); err != nil {
		return m, err
	}
	m.Key, err = str(s, "key")
	return m, err
}

func str(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrMalformed, key)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrMalformed, key)
	}
	return sv.StringValue, nil
}

func boolean(s *structpb.Struct, key string) (bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return false, fmt.Errorf("%w: missing %s", ErrMalformed, key)
	}
	bv, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a bool", ErrMalformed, key)
	}
	return bv.BoolValue, nil
}

func object(s *structpb.Struct, key string) (map[string]any, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformed, key)
	}
	obj := v.GetStructValue()
	if obj == nil {
		return nil, fmt.Errorf("%w: %s is not an object", ErrMalformed, key)
	}
	return obj.AsMap(), nil
}
