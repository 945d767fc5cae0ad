package repo

import (
	"errors"

	"jkwi-ims/backend/app/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository keeps user_<id>.json files next to the member records.
type UserRepository struct{ files *FileRepository }

func NewUserRepository(files *FileRepository) *UserRepository {
	return &UserRepository{files: files}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.files.Write("user_"+u.ID+".json", u)
}

// FindByUsername scans every user file. Unreadable files are passed over.
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	names, err := r.files.Names("user_")
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		var u models.User
		if err := r.files.Read(n, &u); err != nil {
			continue
		}
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}
