package notes

type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Account   string `json:"account,omitempty"`
	NoteCount int    `json:"note_count"`
}

type NoteSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ModificationDate string `json:"modification_date"`
	Folder           string `json:"folder,omitempty"`
}

type NoteDetail struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Plaintext         string `json:"plaintext"`
	CreationDate      string `json:"creation_date"`
	ModificationDate  string `json:"modification_date"`
	PasswordProtected bool   `json:"password_protected"`
}

type NoteHTML struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	HTML string `json:"html"`
}

type CreateResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder"`
}

type UpdateResult struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

type DeleteResult struct {
	Deleted  bool   `json:"deleted"`
	NoteID   string `json:"note_id"`
	NoteName string `json:"note_name"`
	Recovery string `json:"recovery"`
}

type ShowResult struct {
	Shown  bool   `json:"shown"`
	NoteID string `json:"note_id"`
}
