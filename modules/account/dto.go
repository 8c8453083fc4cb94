package account

import (
	"strconv"

	accountsvc "github.com/dmitrymomot/userkit/svc/account"
)

type listRequest struct {
	Limit string `query:"limit"`
	From  string `query:"from"`
}

// page parses the pagination parameters leniently: anything that is not
// a number falls back to the service defaults.
func (r listRequest) page() (offset, limit int64) {
	offset, _ = strconv.ParseInt(r.From, 10, 64)
	limit, _ = strconv.ParseInt(r.Limit, 10, 64)
	return offset, limit
}

type idRequest struct {
	ID string `path:"id"`
}

type createRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Img      string `json:"img"`
	Role     string `json:"role"`
}

func (r createRequest) input() accountsvc.CreateInput {
	return accountsvc.CreateInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Img:      r.Img,
		Role:     accountsvc.Role(r.Role),
	}
}

// updateRequest ignores email, google and status: those cannot be changed
// through an update.
type updateRequest struct {
	ID       string  `json:"-" path:"id"`
	Name     *string `json:"name"`
	Img      *string `json:"img"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

func (r updateRequest) input() accountsvc.UpdateInput {
	in := accountsvc.UpdateInput{Name: r.Name, Img: r.Img, Password: r.Password}
	if r.Role != nil {
		role := accountsvc.Role(*r.Role)
		in.Role = &role
	}
	return in
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"id_token"`
}

type callbackRequest struct {
	State string `query:"state"`
	Code  string `query:"code"`
	Error string `query:"error"`
}
