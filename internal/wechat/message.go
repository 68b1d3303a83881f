package wechat

import "encoding/xml"

// InboundMessage is the XML payload the platform posts on each callback.
// Only the fields this system reads are declared; text messages carry
// Content, event notifications carry Event.
type InboundMessage struct {
	XMLName      xml.Name `xml:"xml"`
	ToUserName   string   `xml:"ToUserName"`
	FromUserName string   `xml:"FromUserName"`
	CreateTime   int64    `xml:"CreateTime"`
	MsgType      string   `xml:"MsgType"`
	Content      string   `xml:"Content"`
	Event        string   `xml:"Event"`
}

// cdata marshals a string as a CDATA section.
type cdata struct {
	Value string `xml:",cdata"`
}

// textReply is the reply payload. To/from are swapped relative to the
// inbound message per platform convention.
type textReply struct {
	XMLName      xml.Name `xml:"xml"`
	ToUserName   cdata    `xml:"ToUserName"`
	FromUserName cdata    `xml:"FromUserName"`
	CreateTime   int64    `xml:"CreateTime"`
	MsgType      cdata    `xml:"MsgType"`
	Content      cdata    `xml:"Content"`
}

func encodeTextReply(toUser, fromUser string, createTime int64, content string) ([]byte, error) {
	return xml.Marshal(textReply{
		ToUserName:   cdata{toUser},
		FromUserName: cdata{fromUser},
		CreateTime:   createTime,
		MsgType:      cdata{"text"},
		Content:      cdata{content},
	})
}
