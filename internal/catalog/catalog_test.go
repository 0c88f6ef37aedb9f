package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	defs  map[string][]Definition
	err   error
	calls int
}

func (f *fakeLister) ListDefinitions(_ context.Context, catalogue string, _ int) ([]Definition, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.defs[catalogue], nil
}

func gmailDefinitions() []Definition {
	return []Definition{
		{
			Name:          "ListEmails",
			QualifiedName: "Gmail.ListEmails",
			Toolkit:       "Gmail",
			Description:   "List recent emails",
			Parameters: []Parameter{
				{Name: "n_emails", ValueType: "integer", Description: "Number of emails"},
			},
			Authorization: &AuthorizationRequirement{ProviderID: "google"},
		},
		{
			Name:        "SendEmail",
			Toolkit:     "Gmail",
			Description: "Send an email",
			Parameters: []Parameter{
				{Name: "recipient", ValueType: "string", Required: true},
				{Name: "subject", ValueType: "string", Required: true},
				{Name: "cc", ValueType: "array", InnerValueType: "string"},
				{Name: "priority", ValueType: "string", Enum: []string{"low", "high"}},
			},
			Authorization: &AuthorizationRequirement{ProviderID: "google"},
		},
	}
}

func TestFromDefinition(t *testing.T) {
	descriptor, err := FromDefinition(gmailDefinitions()[1])
	require.NoError(t, err)

	assert.Equal(t, "Gmail_SendEmail", descriptor.ID)
	assert.Equal(t, "Gmail.SendEmail", descriptor.QualifiedName)
	assert.True(t, descriptor.RequiresAuthorization)
	assert.Equal(t, "object", descriptor.InputSchema.Type)
	assert.ElementsMatch(t, []string{"recipient", "subject"}, descriptor.InputSchema.Required)
	require.Contains(t, descriptor.InputSchema.Properties, "cc")
	assert.Equal(t, "string", descriptor.InputSchema.Properties["cc"].Items.Type)
}

func TestFromDefinition_NoName(t *testing.T) {
	_, err := FromDefinition(Definition{})
	assert.Error(t, err)
}

func TestDescriptor_ValidateArguments(t *testing.T) {
	descriptor, err := FromDefinition(gmailDefinitions()[1])
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{name: "valid", args: map[string]any{"recipient": "a@b.c", "subject": "hi"}},
		{name: "valid with array", args: map[string]any{"recipient": "a@b.c", "subject": "hi", "cc": []any{"x@y.z"}}},
		{name: "missing required", args: map[string]any{"recipient": "a@b.c"}, wantErr: true},
		{name: "wrong type", args: map[string]any{"recipient": 42.0, "subject": "hi"}, wantErr: true},
		{name: "enum mismatch", args: map[string]any{"recipient": "a", "subject": "b", "priority": "urgent"}, wantErr: true},
		{name: "nil args", args: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := descriptor.ValidateArguments(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdapter_ListTools_CachesResult(t *testing.T) {
	lister := &fakeLister{defs: map[string][]Definition{"Gmail": gmailDefinitions()}}
	adapter := NewAdapter(lister, nil)

	first, err := adapter.ListTools(context.Background(), "Gmail", 30)
	require.NoError(t, err)
	second, err := adapter.ListTools(context.Background(), "Gmail", 30)
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls)
}

func TestAdapter_ListTools_ReturnsCopy(t *testing.T) {
	lister := &fakeLister{defs: map[string][]Definition{"Gmail": gmailDefinitions()}}
	adapter := NewAdapter(lister, nil)

	first, err := adapter.ListTools(context.Background(), "Gmail", 30)
	require.NoError(t, err)
	first[0].ID = "mutated"

	second, err := adapter.ListTools(context.Background(), "Gmail", 30)
	require.NoError(t, err)
	second[1].ID = "mutated too"

	third, err := adapter.ListTools(context.Background(), "Gmail", 30)
	require.NoError(t, err)
	assert.Equal(t, "Gmail_ListEmails", third[0].ID)
	assert.Equal(t, "Gmail_SendEmail", third[1].ID)
	assert.Equal(t, 1, lister.calls)
}

func TestAdapter_ListTools_AppliesLimit(t *testing.T) {
	lister := &fakeLister{defs: map[string][]Definition{"Gmail": gmailDefinitions()}}
	adapter := NewAdapter(lister, nil)

	descriptors, err := adapter.ListTools(context.Background(), "Gmail", 1)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "Gmail_ListEmails", descriptors[0].ID)
}

func TestAdapter_ListTools_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		lister Lister
		source string
		limit  int
	}{
		{name: "fetch error", lister: &fakeLister{err: errors.New("connection refused")}, source: "Gmail", limit: 30},
		{name: "unknown catalogue", lister: &fakeLister{}, source: "Nope", limit: 30},
		{name: "no lister", lister: nil, source: "Gmail", limit: 30},
		{name: "bad limit", lister: &fakeLister{}, source: "Gmail", limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewAdapter(tt.lister, nil)
			_, err := adapter.ListTools(context.Background(), tt.source, tt.limit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCatalogueUnavailable))
		})
	}
}

func TestLoad_MergesSources(t *testing.T) {
	lister := &fakeLister{defs: map[string][]Definition{
		"Gmail": gmailDefinitions(),
		"GoogleHotels": {
			{Name: "SearchHotels", Toolkit: "GoogleHotels", Parameters: []Parameter{{Name: "location", ValueType: "string", Required: true}}},
		},
	}}

	set, err := Load(context.Background(), NewAdapter(lister, nil), []Source{
		{Name: "Gmail", Limit: 30},
		{Name: "GoogleHotels", Limit: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	hotel, ok := set.Lookup("GoogleHotels_SearchHotels")
	require.True(t, ok)
	assert.False(t, hotel.RequiresAuthorization)

	ids := make([]string, 0, set.Len())
	for _, descriptor := range set.All() {
		ids = append(ids, descriptor.ID)
	}
	assert.Equal(t, []string{"Gmail_ListEmails", "Gmail_SendEmail", "GoogleHotels_SearchHotels"}, ids)
}

func TestNewSet_Duplicate(t *testing.T) {
	descriptor, err := FromDefinition(gmailDefinitions()[0])
	require.NoError(t, err)

	_, err = NewSet([]Descriptor{descriptor}, []Descriptor{descriptor})
	assert.ErrorContains(t, err, "duplicate tool id")
}
