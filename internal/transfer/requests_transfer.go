package transfer

type LoginRequest struct {
	Password string `json:"password"`
}

type EntryRequest struct {
	ID int64 `json:"id"`
}

type ResumeRequest struct {
	ID          int64  `json:"id"`
	PublishTime string `json:"publish_time,omitempty"` // 2006-01-02T15:04, optional
}

type TaskRequest struct {
	Name string `json:"name"`
}

type ChannelRequest struct {
	ChannelID    string `json:"channel_id"`
	ChannelName  string `json:"channel_name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds, from the OAuth token response
}
