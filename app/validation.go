package app

//request body validation

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

func validate(s interface{}) (bool, string) {
	Validate := validator.New()
	en_us := en.New()
	uni := ut.New(en_us)
	trans, _ := uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(Validate, trans)
	errs := Validate.Struct(s)
	if errs != nil {
		var msg string
		for _, err := range errs.(validator.ValidationErrors) {
			msg += err.Translate(trans) + "\n"
		}
		return false, msg
	}
	return true, ""
}

// submitValidator mirrors the submission body: {languageID, sourceCode}.
type submitValidator struct {
	LanguageID string `json:"languageID" validate:"required,lte=20"`
	SourceCode string `json:"sourceCode" validate:"required,lte=65535"`
}

func (sv *submitValidator) isOk() (bool, string) {
	if strings.TrimSpace(sv.SourceCode) == "" {
		return false, "sourceCode must not be blank"
	}
	return validate(sv)
}

type loginValidator struct {
	Username string `json:"username" validate:"lte=20,required"`
	Password string `json:"password" validate:"gte=6,lte=16,required,printascii"`
}

func (lv *loginValidator) isOk() (bool, string) {
	if strings.ContainsAny(lv.Username, " \n\t\r") {
		return false, "username must not contain whitespace"
	}
	if strings.ContainsAny(lv.Password, " \n\t\r") {
		return false, "password must not contain whitespace"
	}
	return validate(lv)
}

type registerValidator struct {
	Username string `json:"username" validate:"lte=20,required"`
	Password string `json:"password" validate:"gte=6,lte=16,required,printascii"`
	Email    string `json:"email" validate:"email,required"`
}

func (rv *registerValidator) isOk() (bool, string) {
	if strings.ContainsAny(rv.Username, " \n\t\r") {
		return false, "username must not contain whitespace"
	}
	if strings.ContainsAny(rv.Password, " \n\t\r") {
		return false, "password must not contain whitespace"
	}
	return validate(rv)
}

type problemValidator struct {
	Title        string `json:"title" validate:"required,lte=64"`
	Statement    string `json:"statement"`
	CfContestID  int64  `json:"cfContestID" validate:"required,gt=0"`
	CfProblem    string `json:"cfProblem" validate:"required,lte=8"`
	BalloonColor string `json:"balloonColor" validate:"lte=16"`
	IsOpen       bool   `json:"isOpen"`
}

func (pv *problemValidator) isOk() (bool, string) {
	return validate(pv)
}

type contestValidator struct {
	Title    string  `json:"title" validate:"required,lte=64"`
	Begin    string  `json:"begin" validate:"required"` //"2006-01-02 15:04:05"
	Duration uint    `json:"duration" validate:"required,gt=0"`
	Problems []int64 `json:"problems" validate:"required,min=1"`
	IsPublic bool    `json:"isPublic"`
	Desc     string  `json:"desc"`
}

func (cv *contestValidator) isOk() (bool, string) {
	return validate(cv)
}
