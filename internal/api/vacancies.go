package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	crdb "github.com/cockroachdb/errors"
	"github.com/jimezsa/vacancyctl/internal/models"
)

const vacancyPrefix = "/api/v1/vacancy"

// Login exchanges credentials for an access token. It is the only call sent
// without a bearer credential, and a 401 here means bad credentials rather
// than a lost session.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, call{
		op:          "login",
		method:      fhttp.MethodPost,
		path:        "/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		anonymous:   true,
	}, &out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", &Error{Op: "login", Kind: KindRejected, Detail: "no access token in response"}
	}
	return out.AccessToken, nil
}

func (c *Client) ListVacancies(ctx context.Context) ([]models.Vacancy, error) {
	var out []models.Vacancy
	err := c.do(ctx, call{op: "list vacancies", method: fhttp.MethodGet, path: vacancyPrefix + "/list"}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Vacancy{}
	}
	return out, nil
}

func (c *Client) GetVacancy(ctx context.Context, id int64) (models.Vacancy, error) {
	var out models.Vacancy
	err := c.do(ctx, call{
		op:     "get vacancy",
		method: fhttp.MethodGet,
		path:   fmt.Sprintf("%s/get/%d", vacancyPrefix, id),
	}, &out)
	return out, err
}

func (c *Client) CreateVacancy(ctx context.Context, fields models.Fields) (models.Vacancy, error) {
	body, err := jsonBody(fields)
	if err != nil {
		return models.Vacancy{}, crdb.Wrap(err, "encode vacancy")
	}
	var out models.Vacancy
	err = c.do(ctx, call{
		op:          "create vacancy",
		method:      fhttp.MethodPost,
		path:        vacancyPrefix + "/create",
		body:        body,
		contentType: "application/json",
	}, &out)
	return out, err
}

// CreateVacancyFromExternalID asks the service to import an HH posting. The
// id travels as a query parameter and the body is empty.
func (c *Client) CreateVacancyFromExternalID(ctx context.Context, hhID string) (models.Vacancy, error) {
	query := url.Values{}
	query.Set("hh_id", strings.TrimSpace(hhID))

	var out models.Vacancy
	err := c.do(ctx, call{
		op:     "import vacancy",
		method: fhttp.MethodPost,
		path:   vacancyPrefix + "/create",
		query:  query,
	}, &out)
	return out, err
}

func (c *Client) UpdateVacancy(ctx context.Context, id int64, fields models.Fields) (models.Vacancy, error) {
	body, err := jsonBody(fields)
	if err != nil {
		return models.Vacancy{}, crdb.Wrap(err, "encode vacancy")
	}
	var out models.Vacancy
	err = c.do(ctx, call{
		op:          "update vacancy",
		method:      fhttp.MethodPut,
		path:        fmt.Sprintf("%s/update/%d", vacancyPrefix, id),
		body:        body,
		contentType: "application/json",
	}, &out)
	return out, err
}

func (c *Client) DeleteVacancy(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		op:     "delete vacancy",
		method: fhttp.MethodDelete,
		path:   fmt.Sprintf("%s/delete/%d", vacancyPrefix, id),
	}, nil)
}

func (c *Client) RefreshVacancyFromExternalSource(ctx context.Context, id int64) (models.Vacancy, error) {
	var out models.Vacancy
	err := c.do(ctx, call{
		op:     "refresh vacancy",
		method: fhttp.MethodPost,
		path:   fmt.Sprintf("%s/refresh-from-hh/%d", vacancyPrefix, id),
	}, &out)
	return out, err
}
