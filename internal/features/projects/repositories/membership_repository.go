package projects_repositories

import (
	"errors"
	"strings"
	"time"

	projects_models "inovadata/internal/features/projects/models"
	users_enums "inovadata/internal/features/users/enums"
	"inovadata/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateMembership surfaces the unique (project_id, user_id) constraint.
var ErrDuplicateMembership = errors.New("membership already exists")

type MembershipRepository struct{}

func (r *MembershipRepository) CreateMembershipTx(
	tx *gorm.DB,
	membership *projects_models.ProjectMembership,
) error {
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}

	membership.CreatedAt = time.Now().UTC()

	err := tx.Create(membership).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateMembership
	}

	return err
}

// GetUserProjectRole returns nil when the user has no membership in the
// project. Callers must treat nil as "no access", never as a default role.
func (r *MembershipRepository) GetUserProjectRole(
	projectID uuid.UUID,
	userID uuid.UUID,
) (*users_enums.ProjectRole, error) {
	var membership projects_models.ProjectMembership

	err := storage.GetDb().
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership.Role, nil
}

func (r *MembershipRepository) GetMembership(
	projectID uuid.UUID,
	userID uuid.UUID,
) (*projects_models.ProjectMembership, error) {
	var membership projects_models.ProjectMembership

	err := storage.GetDb().
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership, nil
}

func (r *MembershipRepository) UpdateMembershipRoleTx(
	tx *gorm.DB,
	membershipID uuid.UUID,
	role users_enums.ProjectRole,
) error {
	return tx.
		Model(&projects_models.ProjectMembership{}).
		Where("id = ?", membershipID).
		Update("role", role).Error
}

func (r *MembershipRepository) DeleteMembershipTx(tx *gorm.DB, membershipID uuid.UUID) error {
	return tx.
		Where("id = ?", membershipID).
		Delete(&projects_models.ProjectMembership{}).Error
}

type MemberRecord struct {
	MembershipID uuid.UUID `gorm:"column:membership_id"`
	UserID       uuid.UUID `gorm:"column:user_id"`
	Username     string    `gorm:"column:username"`
	Email        string    `gorm:"column:email"`
	Role         string    `gorm:"column:role"`
	JoinedAt     time.Time `gorm:"column:joined_at"`
}

func (r *MembershipRepository) GetProjectMembers(projectID uuid.UUID) ([]*MemberRecord, error) {
	var records []*MemberRecord

	err := storage.GetDb().
		Raw(`
			SELECT
				project_memberships.id AS membership_id,
				users.id AS user_id,
				users.username AS username,
				users.email AS email,
				project_memberships.role AS role,
				project_memberships.created_at AS joined_at
			FROM project_memberships
			JOIN users ON users.id = project_memberships.user_id
			WHERE project_memberships.project_id = ?
			ORDER BY project_memberships.created_at ASC`, projectID).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *MembershipRepository) DeleteProjectMembershipsTx(tx *gorm.DB, projectID uuid.UUID) error {
	return tx.
		Where("project_id = ?", projectID).
		Delete(&projects_models.ProjectMembership{}).Error
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(err.Error())

	return strings.Contains(message, "duplicate key") ||
		strings.Contains(message, "unique constraint")
}
