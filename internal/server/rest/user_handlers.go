package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/server/users"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio,omitempty"`
}

type updateProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Bio: u.Bio}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

func validPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 100
}

func (s *RESTServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" || !validEmail(req.Email) || !validPassword(req.Password) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return
	}

	token, _, err := s.users.SignUp(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		s.internalError(w, r, "error while signing up", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User signup successfully",
		"token":   token,
	})
}

func (s *RESTServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if !validEmail(req.Email) || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return
	}

	token, user, err := s.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.internalError(w, r, "error while signing in", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User found",
		"token":   token,
		"user":    toUserResponse(user),
	})
}

func (s *RESTServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	user, err := s.users.Profile(r.Context(), subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.internalError(w, r, "Failed to fetch user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (s *RESTServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	var req updateProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	// Only name and bio are mutable here.
	if req.Name == nil && req.Bio == nil {
		writeError(w, http.StatusUnprocessableEntity, "Nothing to update. Provide name or bio.")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), subject, users.ProfileUpdate{Name: req.Name, Bio: req.Bio})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.internalError(w, r, "Failed to update user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (s *RESTServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	var req changePasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusUnprocessableEntity, "Old and new passwords are required")
		return
	}
	if !validPassword(req.NewPassword) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return
	}

	err := s.users.ChangePassword(r.Context(), subject, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, http.StatusForbidden, "Old password is incorrect")
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			s.internalError(w, r, "Failed to change password", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
