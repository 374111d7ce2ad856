package provision

import (
	"context"

	"github.com/exotiicpro1-sg/Familia-Ranked/internal/utils"
)

// Handles are the chat-platform room identifiers returned for a match.
// Opaque to the core: stored on the match record and handed back on
// cleanup, never interpreted.
type Handles struct {
	Channel string `json:"channel"`
	VoiceA  string `json:"voiceA"`
	VoiceB  string `json:"voiceB"`
}

// List returns the non-empty handles, for cleanup requests.
func (h Handles) List() []string {
	var out []string
	for _, s := range []string{h.Channel, h.VoiceA, h.VoiceB} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Request asks the collaborator to materialize a text room and one
// voice room per team for a freshly formed match.
type Request struct {
	MatchCode string
	Format    string
	TeamA     []string
	TeamB     []string
}

// Cleanup asks the collaborator to release previously provisioned
// rooms. No result is consumed.
type Cleanup struct {
	MatchCode string
	Handles   []string
}

// Provisioner is the chat-platform side of room management. Failures
// are the collaborator's problem: the dispatcher logs them and the
// core never waits on either call.
type Provisioner interface {
	Provision(ctx context.Context, req Request) (Handles, error)
	Release(ctx context.Context, c Cleanup) error
}

// NoopProvisioner stands in for the chat platform in development and
// tests. It fabricates deterministic handles and logs releases.
type NoopProvisioner struct{}

func (NoopProvisioner) Provision(ctx context.Context, req Request) (Handles, error) {
	return Handles{
		Channel: "text-" + req.MatchCode,
		VoiceA:  "voice-a-" + req.MatchCode,
		VoiceB:  "voice-b-" + req.MatchCode,
	}, nil
}

func (NoopProvisioner) Release(ctx context.Context, c Cleanup) error {
	utils.Info.Printf("released handles for match %s: %v", c.MatchCode, c.Handles)
	return nil
}
