// Package authz resolves who is calling and which company they act for, and
// decides whether a company-scoped record may be touched by them.
package authz

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/internal/models"
)

// Result is the outcome of an authorization check.
type Result int

const (
	// Unauthenticated: no valid session, or the session user no longer exists.
	Unauthenticated Result = iota
	// NoCompany: the user is not attached to any company.
	NoCompany
	// Forbidden: the record belongs to another company or does not exist.
	Forbidden
	// Authenticated: the caller may proceed.
	Authenticated
)

func (r Result) String() string {
	switch r {
	case Unauthenticated:
		return "unauthenticated"
	case NoCompany:
		return "no_company"
	case Forbidden:
		return "forbidden"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// StatusCode maps the result to its HTTP status. Forbidden is reported as 404
// so that another company's records are indistinguishable from missing ones.
func (r Result) StatusCode() int {
	switch r {
	case Authenticated:
		return http.StatusOK
	case NoCompany:
		return http.StatusForbidden
	case Forbidden:
		return http.StatusNotFound
	default:
		return http.StatusUnauthorized
	}
}

// CompanyScoped is implemented by every record owned by a company.
type CompanyScoped interface {
	GetCompanyID() uint
}

// Principal is the resolved caller of a request.
type Principal struct {
	Result    Result
	UserID    uint
	CompanyID uint
}

func (p Principal) Allowed() bool { return p.Result == Authenticated }

// Authorize checks that resource belongs to the principal's company.
func (p Principal) Authorize(resource CompanyScoped) Result {
	if !p.Allowed() {
		return p.Result
	}
	if resource == nil || resource.GetCompanyID() != p.CompanyID {
		return Forbidden
	}
	return Authenticated
}

// Scope restricts a query to the principal's company.
func (p Principal) Scope(db *gorm.DB) *gorm.DB {
	return db.Where("company_id = ?", p.CompanyID)
}

// Checker resolves principals against the users table.
type Checker struct {
	db *gorm.DB
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// Authenticate resolves the caller of ctx. Only database failures are returned as errors.
func (c *Checker) Authenticate(ctx context.Context) (Principal, error) {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return Principal{Result: Unauthenticated}, nil
	}
	var user models.User
	err := c.db.WithContext(ctx).Select("id", "company_id").First(&user, uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Principal{Result: Unauthenticated}, nil
	}
	if err != nil {
		return Principal{Result: Unauthenticated}, err
	}
	if !user.HasCompany() {
		return Principal{Result: NoCompany, UserID: user.ID}, nil
	}
	return Principal{Result: Authenticated, UserID: user.ID, CompanyID: *user.CompanyID}, nil
}

// Load fetches the record with the given id into dst, scoped to the
// principal's company. Missing and foreign records both yield Forbidden.
// Extra scopes may narrow the lookup (document type, preloads).
func (c *Checker) Load(ctx context.Context, p Principal, dst CompanyScoped, id uint, scopes ...func(*gorm.DB) *gorm.DB) (Result, error) {
	if !p.Allowed() {
		return p.Result, nil
	}
	err := c.db.WithContext(ctx).Scopes(p.Scope).Scopes(scopes...).First(dst, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Forbidden, nil
	}
	if err != nil {
		return Forbidden, err
	}
	return p.Authorize(dst), nil
}
