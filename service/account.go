package service

import (
	"context"
	"net/http"
	"strings"

	"cine-booking-cli/model"
)

// CheckAuth asks the API whether the session cookie is still valid and
// refreshes the cached identity either way.
func (c *Client) CheckAuth(ctx context.Context) (model.AuthStatus, error) {
	var status model.AuthStatus
	if err := c.getJSON(ctx, "/check-auth", &status); err != nil {
		return model.AuthStatus{}, err
	}
	if status.Authenticated && status.User != nil {
		c.setIdentity(status.User)
	} else {
		status.Authenticated = false
		c.setIdentity(nil)
	}
	return status, nil
}

// Login accepts either the username or the email in req.Username.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.AccountResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := ValidateLogin(req); err != nil {
		return model.AccountResponse{}, err
	}
	var res model.AccountResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", req, &res); err != nil {
		return model.AccountResponse{}, err
	}
	c.setIdentity(res.User)
	if res.User != nil {
		c.log.LogAuthChange(ctx, res.User.Username, true)
	}
	return res, nil
}

// Register creates the account; the API logs the new user in right away.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest, confirmPassword string) (model.AccountResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.NomeCompleto = strings.TrimSpace(req.NomeCompleto)
	if err := ValidateRegistration(req, confirmPassword); err != nil {
		return model.AccountResponse{}, err
	}
	var res model.AccountResponse
	if err := c.doJSON(ctx, http.MethodPost, "/register", req, &res); err != nil {
		return model.AccountResponse{}, err
	}
	c.setIdentity(res.User)
	if res.User != nil {
		c.log.LogAuthChange(ctx, res.User.Username, true)
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context) (string, error) {
	var res model.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/logout", nil, &res); err != nil {
		return "", err
	}
	if user, ok := c.Identity(); ok {
		c.log.LogAuthChange(ctx, user.Username, false)
	}
	c.setIdentity(nil)
	return res.Message, nil
}

func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/profile", &user); err != nil {
		return model.User{}, err
	}
	c.setIdentity(&user)
	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, profile model.Profile) (model.AccountResponse, error) {
	profile.NomeCompleto = strings.TrimSpace(profile.NomeCompleto)
	profile.Email = strings.TrimSpace(profile.Email)
	if err := ValidateProfile(profile); err != nil {
		return model.AccountResponse{}, err
	}
	var res model.AccountResponse
	if err := c.doJSON(ctx, http.MethodPut, "/profile", profile, &res); err != nil {
		return model.AccountResponse{}, err
	}
	if res.User != nil {
		c.setIdentity(res.User)
	}
	return res, nil
}

func (c *Client) ChangePassword(ctx context.Context, current string, next string, confirm string) (string, error) {
	if err := ValidatePasswordChange(current, next, confirm); err != nil {
		return "", err
	}
	var res model.MessageResponse
	req := model.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := c.doJSON(ctx, http.MethodPost, "/change-password", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
