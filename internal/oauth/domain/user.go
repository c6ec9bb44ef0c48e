package domain

// User is a resource owner able to grant access to clients. The password is
// stored as an Argon2id hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Bio          string
	Location     string
}

// Post is a demo resource owned by a user, served by the protected posts
// endpoint.
type Post struct {
	ID        int
	Title     string
	Content   string
	CreatedAt string
}
