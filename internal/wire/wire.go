//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/zzj2012/backend-project/internal/chat"
	"github.com/zzj2012/backend-project/internal/common"
	"github.com/zzj2012/backend-project/internal/config"
	"github.com/zzj2012/backend-project/internal/dbmongo"
	"github.com/zzj2012/backend-project/internal/dbmysql"
	"github.com/zzj2012/backend-project/internal/membership"
	"github.com/zzj2012/backend-project/internal/room"
	"github.com/zzj2012/backend-project/internal/user"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		config.Load,
		dbmysql.NewMySQL,
		dbmongo.NewMongoConnection,
		dbmongo.NewFileStorage,
		wire.Bind(new(common.FileStore), new(*dbmongo.FileStorage)),
		user.NewUserRepository,
		user.NewUserService,
		user.NewHandler,
		room.NewRoomRepository,
		room.NewMemberRepository,
		room.NewRoomService,
		room.NewHandler,
		membership.NewInvitationRepository,
		membership.NewMembershipService,
		membership.NewHandler,
		chat.NewMessageRepository,
		chat.NewChatService,
		chat.NewHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
