package preparer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
)

type fakeExpander struct {
	vals   map[string]string
	masked map[string]string
	err    error
}

func (f fakeExpander) Expand(_ models.Item, _ ports.MacroScope, raw string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if v, ok := f.vals[raw]; ok {
		return v, nil
	}
	return raw, nil
}

func (f fakeExpander) ExpandMasked(item models.Item, scope ports.MacroScope, raw string) (string, error) {
	if v, ok := f.masked[raw]; ok && f.err == nil {
		return v, nil
	}
	return f.Expand(item, scope, raw)
}

func TestPrepare_AgentItem_ResolvesKeyAndPort(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{
			ItemID:  1,
			Type:    models.AgentPassive,
			KeyOrig: "agent.ping",
			Interface: &models.Interface{
				PortOrig: "10050",
			},
		}},
	}}

	p := Preparer{Expander: fakeExpander{}}
	p.Prepare(batch, true)

	require.Equal(t, models.Success, batch.Slots[0].ErrCode)
	assert.Equal(t, "agent.ping", batch.Slots[0].Item.Key)
	assert.Equal(t, uint16(10050), batch.Slots[0].Item.Interface.Port)
}

func TestPrepare_BadPort_SetsConfigError(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{
			ItemID:  1,
			Type:    models.AgentPassive,
			KeyOrig: "agent.ping",
			Interface: &models.Interface{
				PortOrig: "not-a-port",
			},
		}},
	}}

	p := Preparer{Expander: fakeExpander{}}
	p.Prepare(batch, true)

	assert.Equal(t, models.ConfigError, batch.Slots[0].ErrCode)
	assert.True(t, batch.Slots[0].Result.HasMessage())
}

func TestPrepare_OneItemFailureDoesNotAbortBatch(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{ItemID: 1, Type: models.AgentPassive, KeyOrig: "a", Interface: &models.Interface{PortOrig: "bad"}}},
		{Item: models.Item{ItemID: 2, Type: models.Simple, KeyOrig: "b"}},
	}}

	p := Preparer{Expander: fakeExpander{}}
	p.Prepare(batch, true)

	assert.Equal(t, models.ConfigError, batch.Slots[0].ErrCode)
	assert.Equal(t, models.Success, batch.Slots[1].ErrCode)
	assert.Equal(t, "b", batch.Slots[1].Item.Key)
}

func TestPrepare_HttpAgent_QueryFieldsAppendedAndIdempotent(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{
			ItemID:  1,
			Type:    models.HttpAgent,
			KeyOrig: "web.page.get",
			URLOrig: "http://example.com/status",
			QueryFieldsOrig: "region=eu\nformat=json",
		}},
	}}

	p := Preparer{Expander: fakeExpander{}}
	p.Prepare(batch, true)

	require.Equal(t, models.Success, batch.Slots[0].ErrCode)
	firstPass := batch.Slots[0].Item.URL
	assert.Contains(t, firstPass, "region=eu")
	assert.Contains(t, firstPass, "format=json")

	// P6: preparing the already-normalized URL again (with no query fields
	// of its own) must leave it byte-identical.
	u := firstPass
	batch2 := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{ItemID: 1, Type: models.HttpAgent, KeyOrig: "web.page.get", URLOrig: u}},
	}}
	p.Prepare(batch2, true)
	assert.Equal(t, u, batch2.Slots[0].Item.URL)
}

func TestPrepare_HttpAgent_PostTypeXMLUsesMaskedExpander(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{
			ItemID:    1,
			Type:      models.HttpAgent,
			KeyOrig:   "web.page.get",
			URLOrig:   "http://example.com/",
			PostType:  models.PostXML,
			PostsOrig: "<root/>",
		}},
	}}

	p := Preparer{Expander: fakeExpander{masked: map[string]string{"<root/>": "<masked/>"}}}
	p.Prepare(batch, true)

	require.Equal(t, models.Success, batch.Slots[0].ErrCode)
	assert.Equal(t, "<masked/>", batch.Slots[0].Item.Posts)
}

func TestClean_ResetsResolvedTwinsOnly(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{
			ItemID:  1,
			Type:    models.Simple,
			KeyOrig: "vfs.fs.size",
			Key:     "vfs.fs.size",
		}},
	}}

	p := Preparer{Expander: fakeExpander{}}
	p.Clean(batch)

	assert.Equal(t, "", batch.Slots[0].Item.Key)
	assert.Equal(t, "vfs.fs.size", batch.Slots[0].Item.KeyOrig)
}

func TestPrepare_MacroExpansionError_SetsConfigError(t *testing.T) {
	batch := &models.Batch{Slots: []models.ItemSlot{
		{Item: models.Item{ItemID: 1, Type: models.Simple, KeyOrig: "broken.key"}},
	}}

	p := Preparer{Expander: fakeExpander{err: assertErr{}}}
	p.Prepare(batch, true)

	assert.Equal(t, models.ConfigError, batch.Slots[0].ErrCode)
}

type assertErr struct{}

func (assertErr) Error() string { return "macro not found" }
