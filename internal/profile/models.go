package profile

// User mirrors the profile fields stored at the top of a user's subtree.
// JSON tags are the persisted field names; changing one orphans existing
// data.
type User struct {
	Email         string `json:"email,omitempty"`
	Username      string `json:"username"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Positions     string `json:"positions"`
	HeightFeet    int    `json:"heightFeet"`
	HeightInches  int    `json:"heightInches"`
	HighSchool    string `json:"highschool"`
	State         string `json:"state"`
	Weight        int    `json:"weight"`
	Arm           string `json:"arm"`
	Bats          string `json:"bats"`
	GradYear      int    `json:"gradYear"`
	Phone         string `json:"phone"`
	ProfileType   string `json:"profileType"`
	Title         string `json:"title"`
	ProfilePicURL string `json:"profilePicUrl"`
}

// DisplayName is the "<first> <last>" form used in the directory and in
// conversation projections.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// DirectoryEntry is one row of the global "users" directory.
type DirectoryEntry struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ScoutInfo holds per-player measurables. Verified values are set by a
// coach and absent until then.
type ScoutInfo struct {
	Fastball  float64 `json:"fastball"`
	Curveball float64 `json:"curveball"`
	Slider    float64 `json:"slider"`
	Changeup  float64 `json:"changeup"`
	Sixty     float64 `json:"sixty"`
	Infield   float64 `json:"infield"`
	Outfield  float64 `json:"outfield"`
	ExitVelo  float64 `json:"exitVelo"`

	VerifiedFastball  *float64 `json:"verifiedFastball,omitempty"`
	VerifiedCurveball *float64 `json:"verifiedCurveball,omitempty"`
	VerifiedSlider    *float64 `json:"verifiedSlider,omitempty"`
	VerifiedChangeup  *float64 `json:"verifiedChangeup,omitempty"`
	VerifiedSixty     *float64 `json:"verifiedSixty,omitempty"`
	VerifiedInfield   *float64 `json:"verifiedInfield,omitempty"`
	VerifiedOutfield  *float64 `json:"verifiedOutfield,omitempty"`
	VerifiedExitVelo  *float64 `json:"verifiedExitVelo,omitempty"`
}

// Reference is a contact vouching for a player. Deleted by full-record
// match, not by index.
type Reference struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type PitcherGameLog struct {
	Date           string  `json:"date"`
	Opponent       string  `json:"opponent"`
	InningsPitched float64 `json:"inningsPitched"`
	Hits           int     `json:"hits"`
	Runs           int     `json:"runs"`
	EarnedRuns     int     `json:"earnedRuns"`
	Strikeouts     int     `json:"strikeouts"`
	Walks          int     `json:"walks"`
}

type BatterGameLog struct {
	Date        string `json:"date"`
	Opponent    string `json:"opponent"`
	AtBats      int    `json:"atBats"`
	Hits        int    `json:"hits"`
	Runs        int    `json:"runs"`
	RBIs        int    `json:"rbis"`
	Doubles     int    `json:"doubles"`
	Triples     int    `json:"triples"`
	HomeRuns    int    `json:"homeruns"`
	Strikeouts  int    `json:"strikeouts"`
	Walks       int    `json:"walks"`
	StolenBases int    `json:"stolenBases"`
}
