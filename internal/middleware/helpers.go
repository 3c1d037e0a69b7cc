// internal/middleware/helpers.go
package middleware

import (
	"leaddesk-service/internal/domain/user"

	"github.com/gin-gonic/gin"
)

// ActorFrom returns the actor stored by Auth().
func ActorFrom(c *gin.Context) (*user.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(*user.Actor)
	return actor, ok && actor != nil
}

// MustGetActor gets the actor from context or panics
func MustGetActor(c *gin.Context) *user.Actor {
	actor, ok := ActorFrom(c)
	if !ok {
		panic("actor not found in context")
	}
	return actor
}
