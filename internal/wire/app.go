package wire

import (
	"gorm.io/gorm"

	"github.com/zzj2012/backend-project/internal/chat"
	"github.com/zzj2012/backend-project/internal/config"
	"github.com/zzj2012/backend-project/internal/dbmongo"
	"github.com/zzj2012/backend-project/internal/membership"
	"github.com/zzj2012/backend-project/internal/room"
	"github.com/zzj2012/backend-project/internal/user"
)

// Application bundles everything main needs to serve requests.
type Application struct {
	Config            *config.Config
	DB                *gorm.DB
	Mongo             *dbmongo.MongoClient
	UserHandler       *user.Handler
	RoomHandler       *room.Handler
	MembershipHandler *membership.Handler
	ChatHandler       *chat.Handler
}
