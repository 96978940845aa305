package domain

import (
	"fmt"
	"strings"
	"time"
)

type TopicState int16

const (
	TopicOpen TopicState = iota
	TopicLocked
	TopicMoved
	TopicDeleted
)

var topicStateNames = map[TopicState]string{
	TopicOpen:    "open",
	TopicLocked:  "locked",
	TopicMoved:   "moved",
	TopicDeleted: "deleted",
}

func (s TopicState) String() string {
	if name, ok := topicStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TopicState(%d)", int16(s))
}

func (s TopicState) Known() bool {
	_, ok := topicStateNames[s]
	return ok
}

func ParseTopicState(s string) (TopicState, error) {
	for state, name := range topicStateNames {
		if strings.EqualFold(name, s) {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown topic state %q", s)
}

type TopicType int16

const (
	TopicRegular TopicType = iota
	TopicSticky
	TopicAnnouncement
)

var topicTypeNames = map[TopicType]string{
	TopicRegular:      "regular",
	TopicSticky:       "sticky",
	TopicAnnouncement: "announcement",
}

func (t TopicType) String() string {
	if name, ok := topicTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TopicType(%d)", int16(t))
}

func (t TopicType) Known() bool {
	_, ok := topicTypeNames[t]
	return ok
}

func ParseTopicType(s string) (TopicType, error) {
	for typ, name := range topicTypeNames {
		if strings.EqualFold(name, s) {
			return typ, nil
		}
	}
	return 0, fmt.Errorf("unknown topic type %q", s)
}

type ReplyState int16

const (
	ReplyVisible ReplyState = iota
	ReplyHidden
	ReplyDeleted
)

type TopicCreationData struct {
	ForumId    string       `validate:"notblank,id"`
	MessageId  string       `validate:"notblank,id"`
	Subject    TopicSubject `validate:"notblank"`
	Type       TopicType    `validate:"known"`
	CustomData CustomData
}

type TopicUpdateData struct {
	Id         string       `validate:"notblank,id"`
	Subject    TopicSubject `validate:"notblank"`
	State      TopicState   `validate:"known"`
	Type       TopicType    `validate:"known"`
	CustomData CustomData
}

type ReplyCreationData struct {
	TopicId    string `validate:"notblank,id"`
	MessageId  string `validate:"notblank,id"`
	CustomData CustomData
}

// Topic is a thread inside a forum. LatestReplyId is a lookup pointer only:
// the reply it names may have been deleted since.
type Topic struct {
	Id            Id
	Subject       TopicSubject
	State         TopicState
	Type          TopicType
	CustomData    CustomData
	ForumId       Id
	MessageId     Id
	LatestReplyId OptionalId
	CreatedAt     time.Time
}

func (t Topic) GetId() Id     { return t.Id }
func (t *Topic) SetId(id Id) { t.Id = id }

type Reply struct {
	Id         Id
	TopicId    Id
	MessageId  Id
	State      ReplyState
	CustomData CustomData
	CreatedAt  time.Time
}

func (r Reply) GetId() Id     { return r.Id }
func (r *Reply) SetId(id Id) { r.Id = id }
