package simpleaudio

// Song is the metadata record kept for every uploaded audio file.
// ID is assigned by the Repository on insert and is always a string,
// whatever the native identifier type of the underlying store.
type Song struct {
	ID               string `json:"_id"`
	Name             string `json:"name"`
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename,omitempty"`
}
