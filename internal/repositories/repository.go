package repositories

import (
	"hauswart/internal/database"
)

type Repository struct {
	Task TaskRepository
	Note NoteRepository
}

func New(db database.DB) Repository {
	return Repository{
		Task: NewTaskRepository(db.Cache.General),
		Note: NewNoteRepository(db.Cache.General),
	}
}
