package monitor

import (
	"restockwatch/pkg/state"
	"restockwatch/pkg/stock"
)

// Decide applies the edge-triggered rule for one URL. It notifies only when
// current is InStock and the previous persisted signal was not. prev is
// ignored when havePrev is false.
//
// With rememberNotified an Unknown observation keeps the notified flag of a
// previous InStock, so InStock -> Unknown -> InStock alerts once. OutOfStock
// always clears it.
func Decide(prev state.Record, havePrev bool, current stock.Signal, rememberNotified bool) (state.Record, bool) {
	if !havePrev {
		prev = state.Record{}
	}

	switch current {
	case stock.InStock:
		already := prev.Signal == stock.InStock || (rememberNotified && prev.Notified)
		return state.Record{Signal: stock.InStock, Notified: true}, !already
	case stock.OutOfStock:
		return state.Record{Signal: stock.OutOfStock}, false
	default:
		return state.Record{Signal: stock.Unknown, Notified: rememberNotified && prev.Notified}, false
	}
}
