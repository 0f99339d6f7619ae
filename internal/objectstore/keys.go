package objectstore

import "fmt"

// Object keys are derived from entity ids only, so reissuing a URL for the
// same entity always targets the same blob. Ids are globally unique per
// entity type, which rules out collisions across distinct tuples.

// RestaurantImageKey returns the object key of a restaurant's image
func RestaurantImageKey(restaurantID int64) string {
	return fmt.Sprintf("restaurant_%d_image.jpg", restaurantID)
}

// PlatImageKey returns the object key of one evaluation photo slot
func PlatImageKey(restaurantID, evaluationID, photoID int64) string {
	return fmt.Sprintf("restaurant_%d_evaluation_%d_plat_%d", restaurantID, evaluationID, photoID)
}
