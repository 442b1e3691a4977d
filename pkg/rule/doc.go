// Package rule wires events to conditions and actions.
//
// A Rule binds an event name to a list of condition steps (checker keys
// that must all return true) and a list of action steps (keys that run in
// order once the conditions hold). Steps are ordinary dispatch keys and may
// carry inline arguments:
//
//	{
//	  "rules": [
//	    {
//	      "name": "low-health-potion",
//	      "event": "damaged",
//	      "priority": 10,
//	      "conditions": [{"key": "HealthBelow(30)"}],
//	      "actions": [{"key": "Drink", "args": ["potion"]}]
//	    }
//	  ]
//	}
//
// Rule sets are loaded from JSON with LoadFile or Decode, reloaded on
// change with Watch, or kept in a database with pkg/storage.
package rule
