package monitor

import (
	"testing"

	"restockwatch/pkg/state"
	"restockwatch/pkg/stock"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	in := state.Record{Signal: stock.InStock, Notified: true}
	out := state.Record{Signal: stock.OutOfStock}
	unk := state.Record{Signal: stock.Unknown}
	unkNotified := state.Record{Signal: stock.Unknown, Notified: true}

	tests := []struct {
		name     string
		prev     state.Record
		havePrev bool
		current  stock.Signal
		remember bool
		want     state.Record
		notify   bool
	}{
		{"absent to in stock", state.Record{}, false, stock.InStock, true, in, true},
		{"in stock stays in stock", in, true, stock.InStock, true, in, false},
		{"out of stock to in stock", out, true, stock.InStock, true, in, true},
		{"unknown to in stock", unk, true, stock.InStock, true, in, true},
		{"in stock to out of stock", in, true, stock.OutOfStock, true, out, false},
		{"absent to out of stock", state.Record{}, false, stock.OutOfStock, true, out, false},
		{"absent to unknown", state.Record{}, false, stock.Unknown, true, unk, false},
		{"in stock to unknown keeps memory", in, true, stock.Unknown, true, unkNotified, false},
		{"remembered unknown to in stock", unkNotified, true, stock.InStock, true, in, false},
		{"remembered unknown stays unknown", unkNotified, true, stock.Unknown, true, unkNotified, false},
		{"remembered unknown to out of stock clears", unkNotified, true, stock.OutOfStock, true, out, false},
		{"in stock to unknown without memory", in, true, stock.Unknown, false, unk, false},
		{"unknown to in stock without memory", unkNotified, true, stock.InStock, false, in, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notify := Decide(tt.prev, tt.havePrev, tt.current, tt.remember)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.notify, notify)
		})
	}
}

func TestDecideIgnoresPrevWhenAbsent(t *testing.T) {
	_, notify := Decide(state.Record{Signal: stock.InStock, Notified: true}, false, stock.InStock, true)
	assert.True(t, notify)
}
