package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

// botIDPrefix marks synthetic user ids handed to computer seats.
const botIDPrefix = "bot-"

var (
	botIdentities []BotIdentity
	botIDMap      map[string]bool
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botIdentities = identities
		botIDMap = make(map[string]bool, len(identities))
		for _, identity := range identities {
			if identity.UserID != "" {
				botIDMap[identity.UserID] = true
			}
		}
	})
	return loadErr
}

// GetBotIdentity returns the identity for a computer seat. Seats are 1-based
// from the human's left; the pool wraps when it is smaller than the table.
func GetBotIdentity(seat int) BotIdentity {
	if len(botIdentities) == 0 || seat < 1 {
		return BotIdentity{
			UserID:      fmt.Sprintf("%s%d", botIDPrefix, seat),
			Username:    fmt.Sprintf("ai%d", seat),
			DisplayName: fmt.Sprintf("AI Player %d", seat),
		}
	}
	identity := botIdentities[(seat-1)%len(botIdentities)]
	if identity.DisplayName == "" {
		identity.DisplayName = identity.Username
	}
	return identity
}

// IsBot reports whether the given user ID belongs to a computer seat.
func IsBot(userID string) bool {
	if botIDMap[userID] {
		return true
	}
	return strings.HasPrefix(userID, botIDPrefix)
}
