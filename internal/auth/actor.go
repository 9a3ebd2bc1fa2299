package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Actor is the authenticated user a request runs on behalf of.
type Actor struct {
	UserID      int
	Email       string
	UserType    string
	IsStaff     bool
	IsSuperuser bool
	IsActive    bool
	granted     map[Capability]struct{}
}

func NewActor(userID int, email, userType string, staff, superuser, active bool, caps []Capability) *Actor {
	a := &Actor{
		UserID:      userID,
		Email:       email,
		UserType:    userType,
		IsStaff:     staff,
		IsSuperuser: superuser,
		IsActive:    active,
		granted:     make(map[Capability]struct{}, len(caps)),
	}
	for _, c := range caps {
		a.granted[c] = struct{}{}
	}
	return a
}

func (a *Actor) Has(c Capability) bool {
	_, ok := a.granted[c]
	return ok
}

// ActorLoader resolves a user id from a verified token into an Actor.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID int) (*Actor, error)
}

func SetActor(c *gin.Context, a *Actor) {
	c.Set(actorKey, a)
	c.Set("user_id", a.UserID)
}

func CurrentActor(c *gin.Context) *Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	a, _ := v.(*Actor)
	return a
}

func GetUserID(c *gin.Context) (int, bool) {
	a := CurrentActor(c)
	if a == nil {
		return 0, false
	}
	return a.UserID, true
}
