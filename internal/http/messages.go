package http

import "fmt"

// User facing notices.
const (
	MsgNoFilterMatches = "No books found matching the selected filters."
	MsgLoadBooksError  = "Error loading books!"
	MsgSearchError     = "Error searching for books!"

	MsgBookAdded    = "Book added successfully!"
	MsgAddError     = "Error adding book!"
	MsgBookUpdated  = "Book updated successfully!"
	MsgUpdateError  = "Error updating book!"
	MsgBookDeleted  = "Book deleted successfully!"
	MsgDeleteError  = "Error deleting book!"
	MsgBookNotFound = "Book not found!"
	MsgLoadBookErr  = "Error loading book!"
	MsgReviewError  = "Error loading review!"

	MsgUploadError      = "Error uploading cover image!"
	MsgTitleAuthorEmpty = "Title and author are required."
	MsgInvalidBook      = "Invalid book details."
)

// noSearchMatches is the notice for a search that found nothing.
func noSearchMatches(term string) string {
	return fmt.Sprintf(`No books found matching "%s"`, term)
}
