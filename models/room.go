package models

// RoomType classifies what a listing photo shows. The set is closed;
// RoomUnknown is a valid terminal value, never an error.
type RoomType string

const (
	RoomExterior RoomType = "exterior"
	RoomLiving   RoomType = "living"
	RoomKitchen  RoomType = "kitchen"
	RoomDining   RoomType = "dining"
	RoomBedroom  RoomType = "bedroom"
	RoomBathroom RoomType = "bathroom"
	RoomOffice   RoomType = "office"
	RoomHallway  RoomType = "hallway"
	RoomUtility  RoomType = "utility"
	RoomGarage   RoomType = "garage"
	RoomGarden   RoomType = "garden"
	RoomUnknown  RoomType = "unknown"
)

var roomTypes = map[RoomType]bool{
	RoomExterior: true,
	RoomLiving:   true,
	RoomKitchen:  true,
	RoomDining:   true,
	RoomBedroom:  true,
	RoomBathroom: true,
	RoomOffice:   true,
	RoomHallway:  true,
	RoomUtility:  true,
	RoomGarage:   true,
	RoomGarden:   true,
	RoomUnknown:  true,
}

func (r RoomType) Valid() bool {
	return roomTypes[r]
}

// ParseRoomType maps a string to a RoomType, defaulting to RoomUnknown.
func ParseRoomType(s string) RoomType {
	if roomTypes[RoomType(s)] {
		return RoomType(s)
	}
	return RoomUnknown
}
