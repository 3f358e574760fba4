package persistence

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc/metadata"

	"github.com/oshokin/json-persistence/internal/logger"
)

// Metadata keys carrying the caller identity.
const (
	metadataHostname = "x-actor-hostname"
	metadataUsername = "x-actor-username"
)

// Actor identifies the host and user issuing requests, for the server's logs.
type Actor struct {
	// Hostname of the calling machine.
	Hostname string
	// Username of the calling account.
	Username string
}

// DetectActor gathers host and user information of the current process.
func DetectActor() (Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Actor{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return Actor{}, fmt.Errorf("current user: %w", err)
	}

	return Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// isZero reports whether no identity is set.
func (a Actor) isZero() bool {
	return a.Hostname == "" && a.Username == ""
}

// outgoing attaches the actor to the outgoing request metadata.
func (a Actor) outgoing(ctx context.Context) context.Context {
	if a.isZero() {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, metadataHostname, a.Hostname, metadataUsername, a.Username)
}

// actorFromIncoming extracts the caller identity from request metadata.
func actorFromIncoming(ctx context.Context) (Actor, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Actor{}, false
	}

	actor := Actor{
		Hostname: firstValue(md, metadataHostname),
		Username: firstValue(md, metadataUsername),
	}

	return actor, !actor.isZero()
}

// withActorFields adds the caller identity, when known, to the context logger.
func withActorFields(ctx context.Context) context.Context {
	actor, ok := actorFromIncoming(ctx)
	if !ok {
		return ctx
	}

	return logger.WithFields(ctx, "hostname", actor.Hostname, "username", actor.Username)
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}

	return ""
}
