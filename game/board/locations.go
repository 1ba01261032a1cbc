package board

// LocationID identifies one of the twelve city buildings
type LocationID string

const (
	ConvStore     LocationID = "conv_store"
	Supermarket   LocationID = "supermarket"
	PostOffice    LocationID = "post_office"
	Bank          LocationID = "bank"
	School        LocationID = "school"
	Park          LocationID = "park"
	FireStation   LocationID = "fire_station"
	PoliceStation LocationID = "police_station"
	Mall          LocationID = "mall"
	Stadium       LocationID = "stadium"
	TrainStation  LocationID = "train_station"
	YenStore      LocationID = "yen_store"
)

// RewardKind is the effect a building has on the visiting team
type RewardKind string

const (
	RewardRollBonus RewardKind = "roll_bonus"
	RewardCoins     RewardKind = "coins"
	RewardFreeBus   RewardKind = "free_bus"
)

// Reward describes the fixed power-up granted by a building
type Reward struct {
	Kind   RewardKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
}

// Location is a static building identity
type Location struct {
	ID      LocationID `json:"id"`
	Name    string     `json:"name"`
	Reward  Reward     `json:"reward"`
	Message string     `json:"message"`
}

// Locations is ordered by building number: layout code B1 is Locations[0].
var Locations = []Location{
	{ID: ConvStore, Name: "Convenience Store", Reward: Reward{Kind: RewardRollBonus, Amount: 2}, Message: "Energy Drink! +2 next roll."},
	{ID: Supermarket, Name: "Supermarket", Reward: Reward{Kind: RewardRollBonus, Amount: 1}, Message: "Fresh Apple! +1 next roll."},
	{ID: PostOffice, Name: "Post Office", Reward: Reward{Kind: RewardRollBonus, Amount: 1}, Message: "Express Mail! +1 next roll."},
	{ID: Bank, Name: "Bank", Reward: Reward{Kind: RewardCoins, Amount: 2}, Message: "Cash Back! +2 Coins."},
	{ID: School, Name: "School", Reward: Reward{Kind: RewardRollBonus, Amount: 1}, Message: "Recess! +1 next roll."},
	{ID: Park, Name: "Park", Reward: Reward{Kind: RewardCoins, Amount: 1}, Message: "Found a coin! +1 Coin."},
	{ID: FireStation, Name: "Fire Station", Reward: Reward{Kind: RewardRollBonus, Amount: 2}, Message: "Rescue Speed! +2 next roll."},
	{ID: PoliceStation, Name: "Police Station", Reward: Reward{Kind: RewardRollBonus, Amount: 1}, Message: "Escort! +1 next roll."},
	{ID: Mall, Name: "Shopping Mall", Reward: Reward{Kind: RewardCoins, Amount: 1}, Message: "Gift Card! +1 Coin."},
	{ID: Stadium, Name: "Stadium", Reward: Reward{Kind: RewardRollBonus, Amount: 2}, Message: "Victory Lap! +2 next roll."},
	{ID: TrainStation, Name: "Train Station", Reward: Reward{Kind: RewardFreeBus}, Message: "Free Pass! Next bus is free."},
	{ID: YenStore, Name: "100 Yen Store", Reward: Reward{Kind: RewardCoins, Amount: 2}, Message: "Huge Bargain! +2 Coins."},
}

var locationsByID = func() map[LocationID]Location {
	m := make(map[LocationID]Location, len(Locations))
	for _, loc := range Locations {
		m[loc.ID] = loc
	}
	return m
}()

// LocationByID looks up a location
func LocationByID(id LocationID) (Location, bool) {
	loc, ok := locationsByID[id]
	return loc, ok
}

// HomeID identifies a team start corner
type HomeID string

// HomeInfo is a static start/return corner identity
type HomeInfo struct {
	ID   HomeID `json:"id"`
	Name string `json:"name"`
}

// Homes is ordered by home number: layout code H1 is Homes[0].
var Homes = []HomeInfo{
	{ID: "home_1", Name: "Home 1"},
	{ID: "home_2", Name: "Home 2"},
	{ID: "home_3", Name: "Home 3"},
	{ID: "home_4", Name: "Home 4"},
}

// HomeByID looks up a home
func HomeByID(id HomeID) (HomeInfo, bool) {
	for _, h := range Homes {
		if h.ID == id {
			return h, true
		}
	}
	return HomeInfo{}, false
}

// cornerFacings holds the initial facing for the team starting at Homes[i].
var cornerFacings = []Direction{Right, Down, Up, Left}
