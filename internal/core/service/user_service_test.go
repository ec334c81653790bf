package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

func newUserService(users *stubUserRepo, follows *stubFollowRepo, ideas *stubIdeaRepo) *UserService {
	return NewUserService(users, follows, ideas, discardLogger)
}

func TestUserService_UpdateProfile_EmailAndPassword(t *testing.T) {
	users := newStubUserRepo("alice")
	svc := newUserService(users, newStubFollowRepo(), newStubIdeaRepo())

	email := "new@example.com"
	password := "newpw"
	user, err := svc.UpdateProfile(context.Background(), "alice", ports.UpdateProfileInput{Email: &email, Password: &password})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Email != email {
		t.Errorf("expected email %q, got %q", email, user.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		t.Error("new password hash does not verify")
	}
}

func TestUserService_UpdateProfile_EmptyPasswordRejected(t *testing.T) {
	svc := newUserService(newStubUserRepo("alice"), newStubFollowRepo(), newStubIdeaRepo())

	empty := ""
	_, err := svc.UpdateProfile(context.Background(), "alice", ports.UpdateProfileInput{Password: &empty})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubFollowRepo(), newStubIdeaRepo())

	email := "x@example.com"
	_, err := svc.UpdateProfile(context.Background(), "ghost", ports.UpdateProfileInput{Email: &email})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteAccount_Cascades(t *testing.T) {
	users := newStubUserRepo("alice", "bob")
	follows := newStubFollowRepo()
	ideas := newStubIdeaRepo()
	svc := newUserService(users, follows, ideas)

	followSvc, _ := newFollowService(users, follows)
	acceptedPair(t, followSvc, "bob", "alice")

	ideaSvc := NewIdeaService(ideas, discardLogger)
	if _, err := ideaSvc.Create(context.Background(), ports.CreateIdeaInput{Author: "alice", Text: "gone soon"}); err != nil {
		t.Fatalf("create idea: %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), "alice"); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := users.FindByUsername(context.Background(), "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("user still present: %v", err)
	}
	remaining, _ := ideas.ListByAuthor(context.Background(), "alice", nil)
	if len(remaining) != 0 {
		t.Errorf("ideas not cascaded: %d left", len(remaining))
	}
	followed, _ := follows.Followed(context.Background(), "bob")
	if len(followed) != 0 {
		t.Errorf("edges not cascaded: bob still follows %v", followed)
	}
	if _, err := follows.FindRequest(context.Background(), "bob", "alice"); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("request record not cascaded: %v", err)
	}
}

func TestUserService_DeleteAccount_Unknown(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubFollowRepo(), newStubIdeaRepo())

	if err := svc.DeleteAccount(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Search(t *testing.T) {
	users := newStubUserRepo("alice", "alicia", "bob")
	svc := newUserService(users, newStubFollowRepo(), newStubIdeaRepo())

	matches, err := svc.Search(context.Background(), "ali")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	// Empty queries return nothing rather than everything.
	none, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("empty search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("empty query must match nothing, got %d", len(none))
	}
}

func TestUserService_ListAll(t *testing.T) {
	users := newStubUserRepo("alice", "bob", "carol")
	svc := newUserService(users, newStubFollowRepo(), newStubIdeaRepo())

	all, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
}
