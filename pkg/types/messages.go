package types

// Client -> Server (websocket)
// Randomize:
//   champions: boolean
//   participant_ids: string[] // optional, defaults to the connected players
//
// Reroll: {}

// Server -> Client (websocket)
// StateSnapshot:
//   version: number
//   roll: Roll // absent until the first roll
//
// Error:
//   error: string

type ClientMessage struct {
	Type           string   `json:"type"` // "Randomize" | "Reroll"
	Champions      bool     `json:"champions,omitempty"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"` // "StateSnapshot" | "Error"
	Version int    `json:"version,omitempty"`
	Roll    *Roll  `json:"roll,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HTTP request bodies

type RandomizeRequest struct {
	Champions      bool     `json:"champions"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type RegisterRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type LinkRiotRequest struct {
	RiotID string `json:"riot_id"` // GameName#TAG
	Region string `json:"region,omitempty"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	ValidSizes []int  `json:"valid_sizes,omitempty"`
}
