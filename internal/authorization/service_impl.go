package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	auditdomain "github.com/talenthq/hireline/internal/audit/domain"
	userdomain "github.com/talenthq/hireline/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectApplication = "application"
	ObjectTeam        = "team"
	ObjectAnalytics   = "analytics"
	ObjectAuditLog    = "audit_log"
)

const (
	ActionApplicationView       = "application.view"
	ActionApplicationCreate     = "application.create"
	ActionApplicationSetStatus  = "application.set_status"
	ActionApplicationAddNote    = "application.add_note"
	ActionApplicationBulkStatus = "application.bulk_set_status"

	ActionTeamView   = "team.view"
	ActionTeamManage = "team.manage"

	ActionAnalyticsView = "analytics.view"
	ActionAuditLogView  = "audit_log.view"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Users    userdomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	users    userdomain.Repository
	auditSvc auditdomain.Service
}

// NewEnforcer builds an in-memory enforcer. Grants are a property of the
// role, seeded from code; there is no per-tenant policy data to persist.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		users:    p.Users,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, actorType, actorID, err := s.resolveActor(ctx, actor)
	if err != nil {
		s.auditDenied(ctx, actorType, actorID, object, action)
		return err
	}

	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, actorType, actorID, object, action)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string) (string, string, string, *string, error) {
	if actor == "system" {
		return actor, "role:system", "system", nil, nil
	}
	if strings.HasPrefix(actor, "user:") {
		userIDRaw := strings.TrimPrefix(actor, "user:")
		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			return "", "", "", nil, ErrInvalidActor
		}
		userIDStr := userID.String()
		user, err := s.users.FindByID(ctx, s.db, userID)
		if err != nil {
			return actor, "", "user", &userIDStr, err
		}
		if user == nil {
			return actor, "", "user", &userIDStr, ErrForbidden
		}
		roleName := fmt.Sprintf("role:%s", strings.ToLower(string(user.Role)))
		return actor, roleName, "user", &userIDStr, nil
	}
	return "", "", "", nil, ErrInvalidActor
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, actorType string, actorID *string, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	targetID := "capability"
	_ = s.auditSvc.AuditLog(ctx, actorType, actorID, "authorization.denied", "authorization", &targetID, map[string]any{
		"object": object,
		"action": action,
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Associates review applications but cannot bulk-act or see
		// pipeline-wide reporting.
		{"role:associate", ObjectApplication, ActionApplicationView},
		{"role:associate", ObjectApplication, ActionApplicationCreate},
		{"role:associate", ObjectApplication, ActionApplicationSetStatus},
		{"role:associate", ObjectApplication, ActionApplicationAddNote},
		{"role:associate", ObjectTeam, ActionTeamView},

		// Management permissions
		{"role:management", ObjectApplication, ActionApplicationView},
		{"role:management", ObjectApplication, ActionApplicationCreate},
		{"role:management", ObjectApplication, ActionApplicationSetStatus},
		{"role:management", ObjectApplication, ActionApplicationAddNote},
		{"role:management", ObjectApplication, ActionApplicationBulkStatus},
		{"role:management", ObjectTeam, ActionTeamView},
		{"role:management", ObjectTeam, ActionTeamManage},
		{"role:management", ObjectAnalytics, ActionAnalyticsView},
		{"role:management", ObjectAuditLog, ActionAuditLogView},

		// System permissions (for automated processes)
		{"role:system", ObjectApplication, ActionApplicationView},
		{"role:system", ObjectApplication, ActionApplicationCreate},
		{"role:system", ObjectApplication, ActionApplicationSetStatus},
		{"role:system", ObjectApplication, ActionApplicationAddNote},
		{"role:system", ObjectApplication, ActionApplicationBulkStatus},
		{"role:system", ObjectTeam, ActionTeamView},
		{"role:system", ObjectTeam, ActionTeamManage},
		{"role:system", ObjectAnalytics, ActionAnalyticsView},
		{"role:system", ObjectAuditLog, ActionAuditLogView},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
