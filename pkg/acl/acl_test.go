package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/scribe/pkg/models"
)

func testItem(owner string, editors []string, public, trashed bool) *models.Item {
	item := &models.Item{
		ItemType: models.ItemTypeDocument,
		Owner:    &models.User{EmailAddress: owner},
		IsPublic: public,
		Trashed:  trashed,
	}
	for _, e := range editors {
		item.Editors = append(item.Editors, &models.User{EmailAddress: e})
	}
	return item
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		item      *models.Item
		requester string
		want      Capability
	}{
		{
			name:      "owner",
			item:      testItem("alice@example.com", nil, false, false),
			requester: "alice@example.com",
			want:      Owner,
		},
		{
			name:      "owner of trashed item",
			item:      testItem("alice@example.com", nil, false, true),
			requester: "alice@example.com",
			want:      Owner,
		},
		{
			name: "editor",
			item: testItem(
				"alice@example.com", []string{"bob@example.com"}, false, false),
			requester: "bob@example.com",
			want:      Editor,
		},
		{
			name:      "unrelated user on private item",
			item:      testItem("alice@example.com", nil, false, false),
			requester: "carol@example.com",
			want:      None,
		},
		{
			name:      "unrelated user on public item",
			item:      testItem("alice@example.com", nil, true, false),
			requester: "carol@example.com",
			want:      PublicViewer,
		},
		{
			name:      "anonymous on public item",
			item:      testItem("alice@example.com", nil, true, false),
			requester: Anonymous,
			want:      PublicViewer,
		},
		{
			name:      "anonymous on private item",
			item:      testItem("alice@example.com", nil, false, false),
			requester: Anonymous,
			want:      None,
		},
		{
			name:      "public visibility suppressed while trashed",
			item:      testItem("alice@example.com", nil, true, true),
			requester: Anonymous,
			want:      None,
		},
		{
			name: "public flag carries no capability on presentations",
			item: &models.Item{
				ItemType: models.ItemTypePresentation,
				Owner:    &models.User{EmailAddress: "alice@example.com"},
				IsPublic: true,
			},
			requester: "carol@example.com",
			want:      None,
		},
		{
			name: "editor takes priority over public",
			item: testItem(
				"alice@example.com", []string{"bob@example.com"}, true, false),
			requester: "bob@example.com",
			want:      Editor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.item, tt.requester))
		})
	}
}

func TestCapabilityPermissions(t *testing.T) {
	assert.False(t, None.CanRead())

	assert.True(t, PublicViewer.CanRead())
	assert.True(t, PublicViewer.CanClone())
	assert.False(t, PublicViewer.CanWrite())
	assert.False(t, PublicViewer.CanLock())

	assert.True(t, Editor.CanWrite())
	assert.True(t, Editor.CanLock())
	assert.False(t, Editor.CanDelete())
	assert.False(t, Editor.CanShare())

	assert.True(t, Owner.CanDelete())
	assert.True(t, Owner.CanShare())
}
