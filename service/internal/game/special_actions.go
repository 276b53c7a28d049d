// special_actions.go: client events for the effects of special cards.
package game

import (
	engine "github.com/devdo-eu/macau/engine"
)

// specialEvent builds the client event of a special card effect. table is
// the public state right after the effect was applied. It returns false
// for events that are not about a special card.
func specialEvent(ev engine.Event, table engine.PublicView) (GameEvent, bool) {
	out := GameEvent{Player: ev.Player, Count: ev.Count, Text: ev.Text}
	switch ev.Kind {
	case engine.EventRequest:
		out.Type = EventPlayerRequest
		out.Payload = requestPayload(table)
	case engine.EventMacau:
		out.Type = EventPlayerMacau
	case engine.EventPikesKing:
		// Player is the one redirected to, not the one who played the King.
		out.Type = EventPlayerPikesKing
		out.Payload = map[string]interface{}{"victim": ev.Player, "cards_taken": ev.Count}
	case engine.EventWait:
		out.Type = EventPlayerWait
		out.Payload = map[string]interface{}{"turns": ev.Count}
	default:
		return GameEvent{}, false
	}
	return out, true
}

// requestPayload describes the pending Jack or Ace request.
func requestPayload(table engine.PublicView) map[string]interface{} {
	payload := map[string]interface{}{}
	if table.RequestedValue != engine.NoRank {
		payload["requested_value"] = engine.RankString(table.RequestedValue)
		payload["requested_value_rounds"] = table.RequestedValueRounds
	}
	if table.RequestedColor != engine.NoSuit {
		payload["requested_color"] = engine.SuitString(table.RequestedColor)
	}
	return payload
}
