package validator

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"user-account-api/internal/application/ports"
	"user-account-api/internal/domain/user"
	"user-account-api/internal/interface/api/rest/dto/auth"
	dto "user-account-api/internal/interface/api/rest/dto/user"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128

	minUsernameLen = 2
	maxUsernameLen = 64
)

var ErrInvalidUserID = errors.New("user_id must be a valid email address")

// NormalizeUserID lowercases and trims the email-shaped identifier.
func NormalizeUserID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeUsername trims and applies Unicode NFC so visually equal names compare equal.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func ValidateUserID(raw string) (string, error) {
	id := NormalizeUserID(raw)
	if msg := userIDProblem(id); msg != "" {
		return "", ErrInvalidUserID
	}
	return id, nil
}

func userIDProblem(id string) string {
	switch {
	case id == "":
		return "user_id is required"
	case len(id) > user.MaxUserIDLength:
		return fmt.Sprintf("user_id must be at most %d characters", user.MaxUserIDLength)
	}
	if addr, err := mail.ParseAddress(id); err != nil || addr.Address != id {
		return "invalid email format"
	}
	return ""
}

func usernameProblem(name string) string {
	if name == "" {
		return "username is required"
	}
	if l := utf8.RuneCountInString(name); l < minUsernameLen || l > maxUsernameLen {
		return fmt.Sprintf("username length must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "username must not contain control characters"
		}
	}
	return ""
}

// ValidateRegister returns the normalized registration or per-field errors.
func ValidateRegister(r auth.RegisterRequest) (ports.Registration, map[string]string) {
	errs := make(map[string]string)

	in := ports.Registration{
		UserID:          NormalizeUserID(r.UserID),
		Username:        NormalizeUsername(r.Username),
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}

	if msg := userIDProblem(in.UserID); msg != "" {
		errs["user_id"] = msg
	}
	if msg := usernameProblem(in.Username); msg != "" {
		errs["username"] = msg
	}

	// passwords are never trimmed
	if strings.TrimSpace(in.Password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(in.Password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = fmt.Sprintf("password length must be %d-%d characters", minPasswordLen, maxPasswordLen)
	}
	if in.ConfirmPassword == "" {
		errs["confirm_password"] = "confirm_password is required"
	}

	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}

// ValidateLogin only checks presence; length rules would leak which legacy
// accounts have short passwords.
func ValidateLogin(r auth.LoginRequest) (string, map[string]string) {
	errs := make(map[string]string)

	id := NormalizeUserID(r.UserID)
	if id == "" {
		errs["user_id"] = "user_id is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	} else if len(r.Password) > 4*maxPasswordLen {
		errs["password"] = "password is too long"
	}

	if len(errs) == 0 {
		return id, nil
	}
	return id, errs
}

func ValidateUpdate(id string, r dto.UpdateRequest) (ports.UserUpdate, map[string]string) {
	errs := make(map[string]string)
	out := ports.UserUpdate{UserID: id, IsActive: r.IsActive}

	if r.Username != nil {
		name := NormalizeUsername(*r.Username)
		if msg := usernameProblem(name); msg != "" {
			errs["username"] = msg
		}
		out.Username = &name
	}
	if r.Role != nil {
		role, err := user.ParseRole(*r.Role)
		if err != nil {
			errs["role"] = "unknown role"
		} else {
			out.Role = &role
		}
	}
	if r.Username == nil && r.Role == nil && r.IsActive == nil {
		errs["body"] = "at least one of username, role, is_active is required"
	}

	if len(errs) == 0 {
		return out, nil
	}
	return out, errs
}

func ValidatePage(page string) (int, error) {
	if page == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil {
		return 0, errors.New("invalid page")
	}
	return p, nil
}

// ParseListQuery maps listing query parameters onto a filter. Paging is
// clamped later; only malformed values are rejected here.
func ParseListQuery(q url.Values) (user.ListFilter, map[string]string) {
	errs := make(map[string]string)
	f := user.ListFilter{SearchTerm: strings.TrimSpace(q.Get("q"))}

	var err error
	if f.Page, err = ValidatePage(q.Get("page")); err != nil {
		errs["page"] = err.Error()
	}
	if v := q.Get("page_size"); v != "" {
		if f.PageSize, err = strconv.Atoi(v); err != nil {
			errs["page_size"] = "invalid page_size"
		}
	}
	if v := q.Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs["is_active"] = "must be true or false"
		} else {
			f.IsActive = &b
		}
	}
	if v := q.Get("role"); v != "" {
		role, err := user.ParseRole(v)
		if err != nil {
			errs["role"] = "unknown role"
		} else {
			f.Role = &role
		}
	}
	if v := q.Get("include_deleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs["include_deleted"] = "must be true or false"
		}
		f.IncludeDeleted = b
	}

	sortBy, ok := user.ParseSortField(q.Get("sort_by"))
	if !ok {
		errs["sort_by"] = "unknown sort field"
	}
	f.SortBy = sortBy
	order, ok := user.ParseSortOrder(q.Get("order"))
	if !ok {
		errs["order"] = "must be asc or desc"
	}
	f.Order = order

	if len(errs) == 0 {
		return f, nil
	}
	return f, errs
}
