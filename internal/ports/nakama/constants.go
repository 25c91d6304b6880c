package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to create a solo table.
	RpcQuickMatch = "quick_match"

	// MatchNameEstwhi is the authoritative match handler name registered with Nakama.
	MatchNameEstwhi = "estwhi_match"

	// LeaderboardHighScores keeps every player's best finished-game score.
	LeaderboardHighScores = "estwhi_high_scores"

	// TickRate is the number of MatchLoop calls per second.
	TickRate = 2
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpDeal      int64 = 1
	OpSubmitBid int64 = 2
	OpPlayCard  int64 = 3
	OpContinue  int64 = 4
	OpNewGame   int64 = 5

	// Server -> Client events
	OpStateSnapshot   int64 = 101
	OpBidRequest      int64 = 102
	OpCardPlayed      int64 = 103
	OpTrickComplete   int64 = 104
	OpHandComplete    int64 = 105
	OpGameOver        int64 = 106
	OpGameError       int64 = 107
	OpHandDealt       int64 = 108 // sent privately
	OpBidPlaced       int64 = 109 // {seat, call}; adds {adjusted, requested} when the human's call was moved
	OpYourTurn        int64 = 110
	OpBiddingComplete int64 = 111
)
