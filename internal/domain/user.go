package domain

// SupabaseUser represents an authenticated user from Supabase Auth.
type SupabaseUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	CreatedAt    string                 `json:"created_at"`
	UpdatedAt    string                 `json:"updated_at"`
}

// Attribution derives a CreatedBy record from the authenticated user,
// falling back to placeholder names when the auth metadata omits them.
func (u *SupabaseUser) Attribution() *CreatedBy {
	if u == nil {
		return nil
	}
	created := &CreatedBy{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: "Unknown",
		LastName:  "User",
	}
	if v, ok := u.UserMetadata["first_name"].(string); ok && v != "" {
		created.FirstName = v
	}
	if v, ok := u.UserMetadata["last_name"].(string); ok && v != "" {
		created.LastName = v
	}
	return created
}
