package common

type MessageType string

const (
	MessageText    MessageType = "text"
	MessageImage   MessageType = "image"
	MessageFile    MessageType = "file"
	MessageEmoji   MessageType = "emoji"
	MessageWarning MessageType = "warning"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageEmoji, MessageWarning:
		return true
	}
	return false
}

// NeedsFile reports whether messages of this type must carry a stored file reference.
func (t MessageType) NeedsFile() bool {
	return t == MessageImage || t == MessageFile
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

const (
	InvitationActionAccept = "accept"
	InvitationActionReject = "reject"
)
