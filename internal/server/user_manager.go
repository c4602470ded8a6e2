package server

import (
	"regexp"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"quizdeck-server/internal/quiz"
)

// User is a registered quiz author. Passwords are stored as bcrypt hashes;
// PasswordHistory keeps the hashes of retired passwords so a change can
// refuse reuse.
type User struct {
	UserID              int      `json:"userId"`
	Email               string   `json:"email"`
	NameFirst           string   `json:"nameFirst"`
	NameLast            string   `json:"nameLast"`
	PasswordHash        string   `json:"passwordHash"`
	PasswordHistory     []string `json:"passwordHistory"`
	NumSuccessfulLogins int      `json:"numSuccessfulLogins"`
	NumFailedLogins     int      `json:"numFailedPasswordsSinceLastLogin"`
}

// UserDetails is the public view of a user.
type UserDetails struct {
	UserID              int    `json:"userId"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	NumSuccessfulLogins int    `json:"numSuccessfulLogins"`
	NumFailedLogins     int    `json:"numFailedPasswordsSinceLastLogin"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z '-]{2,20}$`)
)

func checkUserName(name, field string) error {
	if !namePattern.MatchString(name) {
		return quiz.InvalidInputf("%s must be 2 to 20 letters, spaces, hyphens or apostrophes", field)
	}
	return nil
}

func checkPassword(password string) error {
	if len(password) < 8 {
		return quiz.InvalidInputf("password must be at least 8 characters long")
	}
	hasLetter, hasDigit := false, false
	for _, ch := range password {
		switch {
		case ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return quiz.InvalidInputf("password must contain at least one letter and one digit")
	}
	return nil
}

// UserManager owns every registered account.
type UserManager struct {
	mu    sync.Mutex
	users []*User
}

func NewUserManager() *UserManager {
	return &UserManager{}
}

func (um *UserManager) findByEmailLocked(email string) *User {
	for _, user := range um.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}

func (um *UserManager) findLocked(userID int) (*User, error) {
	for _, user := range um.users {
		if user.UserID == userID {
			return user, nil
		}
	}
	return nil, quiz.NotFoundf("userId does not exist")
}

// Register creates an account and counts it as the first successful login.
func (um *UserManager) Register(email, password, nameFirst, nameLast string) (int, error) {
	if !emailPattern.MatchString(email) {
		return 0, quiz.InvalidInputf("email is not valid")
	}
	if err := checkUserName(nameFirst, "first name"); err != nil {
		return 0, err
	}
	if err := checkUserName(nameLast, "last name"); err != nil {
		return 0, err
	}
	if err := checkPassword(password); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	if um.findByEmailLocked(email) != nil {
		return 0, quiz.Conflictf("email is already registered")
	}

	maxID := -1
	for _, user := range um.users {
		if user.UserID > maxID {
			maxID = user.UserID
		}
	}
	user := &User{
		UserID:              maxID + 1,
		Email:               email,
		NameFirst:           nameFirst,
		NameLast:            nameLast,
		PasswordHash:        string(hash),
		PasswordHistory:     []string{},
		NumSuccessfulLogins: 1,
	}
	um.users = append(um.users, user)
	return user.UserID, nil
}

// Login checks credentials and maintains the login counters. A wrong
// password on a known email increments the failed counter; a success
// resets it.
func (um *UserManager) Login(email, password string) (int, error) {
	um.mu.Lock()
	defer um.mu.Unlock()

	user := um.findByEmailLocked(email)
	if user == nil {
		return 0, quiz.Unauthorizedf("email or password is incorrect")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		user.NumFailedLogins++
		return 0, quiz.Unauthorizedf("email or password is incorrect")
	}
	user.NumSuccessfulLogins++
	user.NumFailedLogins = 0
	return user.UserID, nil
}

// Details returns the public view of a user.
func (um *UserManager) Details(userID int) (UserDetails, error) {
	um.mu.Lock()
	defer um.mu.Unlock()

	user, err := um.findLocked(userID)
	if err != nil {
		return UserDetails{}, err
	}
	return UserDetails{
		UserID:              user.UserID,
		Name:                user.NameFirst + " " + user.NameLast,
		Email:               user.Email,
		NumSuccessfulLogins: user.NumSuccessfulLogins,
		NumFailedLogins:     user.NumFailedLogins,
	}, nil
}

// UpdateDetails changes a user's email and names. The new email must not
// belong to anyone else.
func (um *UserManager) UpdateDetails(userID int, email, nameFirst, nameLast string) error {
	if !emailPattern.MatchString(email) {
		return quiz.InvalidInputf("email is not valid")
	}
	if err := checkUserName(nameFirst, "first name"); err != nil {
		return err
	}
	if err := checkUserName(nameLast, "last name"); err != nil {
		return err
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	user, err := um.findLocked(userID)
	if err != nil {
		return err
	}
	if other := um.findByEmailLocked(email); other != nil && other.UserID != userID {
		return quiz.Conflictf("email is already registered")
	}
	user.Email = email
	user.NameFirst = nameFirst
	user.NameLast = nameLast
	return nil
}

// UpdatePassword rotates a user's password. The old password must match
// and the new one must not match the current password or any retired one.
func (um *UserManager) UpdatePassword(userID int, oldPassword, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	user, err := um.findLocked(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return quiz.InvalidInputf("old password is incorrect")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return quiz.InvalidInputf("new password must differ from the old password")
	}
	for _, retired := range user.PasswordHistory {
		if bcrypt.CompareHashAndPassword([]byte(retired), []byte(newPassword)) == nil {
			return quiz.InvalidInputf("new password has been used before")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHistory = append(user.PasswordHistory, user.PasswordHash)
	user.PasswordHash = string(hash)
	return nil
}

// FindByEmail resolves a user id from an email. Used for quiz transfer.
func (um *UserManager) FindByEmail(email string) (int, error) {
	um.mu.Lock()
	defer um.mu.Unlock()

	user := um.findByEmailLocked(email)
	if user == nil {
		return 0, quiz.NotFoundf("no user is registered with this email")
	}
	return user.UserID, nil
}

// AllUsers returns copies of every account for persistence snapshots.
func (um *UserManager) AllUsers() []User {
	um.mu.Lock()
	defer um.mu.Unlock()

	users := make([]User, 0, len(um.users))
	for _, user := range um.users {
		copied := *user
		copied.PasswordHistory = append([]string(nil), user.PasswordHistory...)
		users = append(users, copied)
	}
	return users
}

// Restore reloads persisted accounts.
func (um *UserManager) Restore(users []User) {
	um.mu.Lock()
	defer um.mu.Unlock()

	for i := range users {
		user := users[i]
		um.users = append(um.users, &user)
	}
}

// Clear drops every account. Test support.
func (um *UserManager) Clear() {
	um.mu.Lock()
	defer um.mu.Unlock()
	um.users = nil
}
