package engagement

const (
	PostTypePhoto = "photo"
	PostTypeVideo = "video"
)

// Post is one element of an owner's Posts array. Index is the position in
// that array and IS the post's identity: deleting a post renumbers every
// later post. Addressing a post therefore always goes through its owner
// and current index.
type Post struct {
	Index     int       `json:"identifier"`
	Owner     string    `json:"owner,omitempty"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail"`
	Caption   string    `json:"caption"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// Like records who liked a post. Username and Name are denormalized for
// display; membership is keyed on Email alone.
type Like struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Comment is one element of a post's comment array; Index is its position
// there, assigned at read time.
type Comment struct {
	Index int    `json:"identifier"`
	Email string `json:"email"`
	Text  string `json:"comment"`
	Date  string `json:"date,omitempty"`
}

// NewPostInput carries the caller-supplied fields of a new post.
type NewPostInput struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Caption   string `json:"caption"`
	Type      string `json:"type"`
}
