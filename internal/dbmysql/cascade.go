package dbmysql

import (
	"gorm.io/gorm"
)

// DeleteRoomRows removes every row referencing the room, then the room
// itself. Callers must run it inside a transaction so a partial cascade is
// never observable.
func DeleteRoomRows(tx *gorm.DB, roomID uint64) error {
	if err := tx.Where("room_id = ?", roomID).Delete(&RoomMember{}).Error; err != nil {
		return err
	}
	if err := tx.Where("room_id = ?", roomID).Delete(&Message{}).Error; err != nil {
		return err
	}
	if err := tx.Where("room_id = ?", roomID).Delete(&Invitation{}).Error; err != nil {
		return err
	}
	return tx.Delete(&Room{}, roomID).Error
}
