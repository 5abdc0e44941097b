package twitter

// apiResponse is the envelope the v2 bookmarks and search endpoints
// return: tweet records in data, denormalized authors in includes.
type apiResponse struct {
	Data     []tweetData `json:"data"`
	Includes includes    `json:"includes"`
	Meta     meta        `json:"meta"`
}

type includes struct {
	Users []userData `json:"users"`
}

type meta struct {
	NextToken string `json:"next_token"`
}

type tweetData struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	AuthorID         string            `json:"author_id"`
	CreatedAt        string            `json:"created_at"`
	ConversationID   string            `json:"conversation_id"`
	ReferencedTweets []referencedTweet `json:"referenced_tweets"`
	NoteTweet        *noteTweet        `json:"note_tweet"`
	Truncated        bool              `json:"truncated"`
}

type referencedTweet struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// noteTweet carries long-form "Notes" content.
type noteTweet struct {
	Text string `json:"text"`
}

type userData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type userResponse struct {
	Data userData `json:"data"`
}
