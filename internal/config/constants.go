package config

const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultUploadDir is where uploaded covers land when stored locally
	DefaultUploadDir = "./public/uploads"

	// DefaultUploadMaxBytes caps a single cover upload (5MB)
	DefaultUploadMaxBytes = 5 * 1024 * 1024
)

// BookCategories are the presets offered by the add and edit forms.
// "Other" lets the user type a category of their own.
var BookCategories = []string{
	"Fiction",
	"Non-Fiction",
	"Science",
	"History",
	"Biography",
	"Philosophy",
	"Self-Help",
	"Fantasy",
	CategoryOther,
}

// CategoryOther is the form value that enables the free-text category input.
const CategoryOther = "Other"
