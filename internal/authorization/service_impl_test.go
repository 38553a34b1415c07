package authorization

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	userdomain "github.com/talenthq/hireline/internal/user/domain"
	userrepository "github.com/talenthq/hireline/internal/user/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestAuthz(t *testing.T) (Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	svc := NewService(Params{
		DB:       db,
		Log:      zaptest.NewLogger(t),
		Enforcer: enforcer,
		Users:    userrepository.Provide(),
	})

	return svc, db, node
}

func seedUser(t *testing.T, db *gorm.DB, node *snowflake.Node, role userdomain.Role) userdomain.User {
	t.Helper()
	user := userdomain.User{
		ID:    node.Generate(),
		Name:  "Test User",
		Email: fmt.Sprintf("%s@example.com", node.Generate()),
		Role:  role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAuthorize(t *testing.T) {
	svc, db, node := newTestAuthz(t)
	ctx := context.Background()

	associate := seedUser(t, db, node, userdomain.RoleAssociate)
	manager := seedUser(t, db, node, userdomain.RoleManagement)

	t.Run("associate can review applications", func(t *testing.T) {
		actor := "user:" + associate.ID.String()
		assert.NoError(t, svc.Authorize(ctx, actor, ObjectApplication, ActionApplicationSetStatus))
		assert.NoError(t, svc.Authorize(ctx, actor, ObjectApplication, ActionApplicationAddNote))
	})

	t.Run("associate cannot bulk act or view analytics", func(t *testing.T) {
		actor := "user:" + associate.ID.String()
		assert.ErrorIs(t, svc.Authorize(ctx, actor, ObjectApplication, ActionApplicationBulkStatus), ErrForbidden)
		assert.ErrorIs(t, svc.Authorize(ctx, actor, ObjectAnalytics, ActionAnalyticsView), ErrForbidden)
		assert.ErrorIs(t, svc.Authorize(ctx, actor, ObjectTeam, ActionTeamManage), ErrForbidden)
	})

	t.Run("management has the full surface", func(t *testing.T) {
		actor := "user:" + manager.ID.String()
		assert.NoError(t, svc.Authorize(ctx, actor, ObjectApplication, ActionApplicationBulkStatus))
		assert.NoError(t, svc.Authorize(ctx, actor, ObjectAnalytics, ActionAnalyticsView))
		assert.NoError(t, svc.Authorize(ctx, actor, ObjectTeam, ActionTeamManage))
		assert.NoError(t, svc.Authorize(ctx, actor, ObjectAuditLog, ActionAuditLogView))
	})

	t.Run("system is unrestricted", func(t *testing.T) {
		assert.NoError(t, svc.Authorize(ctx, "system", ObjectApplication, ActionApplicationBulkStatus))
	})

	t.Run("rejects malformed actors", func(t *testing.T) {
		assert.ErrorIs(t, svc.Authorize(ctx, "", ObjectApplication, ActionApplicationView), ErrInvalidActor)
		assert.ErrorIs(t, svc.Authorize(ctx, "user:not-a-number", ObjectApplication, ActionApplicationView), ErrInvalidActor)
		assert.ErrorIs(t, svc.Authorize(ctx, "robot:1", ObjectApplication, ActionApplicationView), ErrInvalidActor)
	})

	t.Run("role change is picked up on next check", func(t *testing.T) {
		user := seedUser(t, db, node, userdomain.RoleAssociate)
		actor := "user:" + user.ID.String()
		assert.ErrorIs(t, svc.Authorize(ctx, actor, ObjectAnalytics, ActionAnalyticsView), ErrForbidden)

		require.NoError(t, db.Model(&userdomain.User{}).
			Where("id = ?", user.ID).
			Update("role", userdomain.RoleManagement).Error)

		assert.NoError(t, svc.Authorize(ctx, actor, ObjectAnalytics, ActionAnalyticsView))
	})
}
