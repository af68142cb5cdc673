package store

// Keys 存储键，前缀默认 edstudy_
type Keys struct {
	Prefix string
}

func (k Keys) Users() string    { return k.Prefix + "users" }
func (k Keys) Notices() string  { return k.Prefix + "notices" }
func (k Keys) Bookings() string { return k.Prefix + "bookings" }

func (k Keys) TestHistory(owner string) string {
	return k.Prefix + "test_history:" + owner
}

func (k Keys) Session(token string) string {
	return k.Prefix + "session:" + token
}

func (k Keys) SessionIndex(email string) string {
	return k.Prefix + "session_index:" + email
}
