package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"mini-boxdrop/internal/domain"
)

const (
	minPasswordLen = 6
	// bcrypt 只接受 72 字节以内的密码
	maxPasswordLen = 72
)

// 只锚定开头：a@b.c@d 也算合法
var emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// NormalizeEmail 去首尾空白、转小写、去掉所有内部空白
func NormalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func ValidEmail(s string) bool { return emailRe.MatchString(s) }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func checkPasswordLen(pw string) error {
	switch {
	case len(pw) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	case len(pw) > maxPasswordLen:
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordLen)
	}
	return nil
}

type RegisterInput struct {
	Name      string `form:"name" json:"name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	Password2 string `form:"password2" json:"password2"`
}

func (in *RegisterInput) validate() error {
	if blank(in.Name) || blank(in.LastName) || blank(in.Email) || in.Password == "" {
		return fmt.Errorf("%w: missing required field", domain.ErrValidation)
	}
	if err := checkPasswordLen(in.Password); err != nil {
		return err
	}
	if in.Password2 != "" && in.Password2 != in.Password {
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	return nil
}

type LoginInput struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type SettingsInput struct {
	Email           string `form:"email" json:"email"` // 定位用户
	OldPassword     string `form:"old_password" json:"old_password"`
	Name            string `form:"name" json:"name"`
	LastName        string `form:"last_name" json:"last_name"`
	NewEmail        string `form:"new_email" json:"new_email"` // 为空则不改邮箱
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

func (in *SettingsInput) validate() error {
	if blank(in.Name) || blank(in.LastName) {
		return fmt.Errorf("%w: missing required field", domain.ErrValidation)
	}
	if in.NewPassword != "" {
		if err := checkPasswordLen(in.NewPassword); err != nil {
			return err
		}
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.NewPassword {
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	return nil
}

// ProductInput name / description / id_user 必填
type ProductInput struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	UserID      string `form:"id_user" json:"id_user"`
}

func (in *ProductInput) validate() error {
	if blank(in.Name) || blank(in.Description) || blank(in.UserID) {
		return fmt.Errorf("%w: missing required field", domain.ErrValidation)
	}
	return nil
}
