// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys shared by the command line front end.
const (
	MsgOpensIn     = "Voting opens in %s"
	MsgOpen        = "Voting is open - pick up to %d"
	MsgClosed      = "Voting is closed"
	MsgLoadFailed  = "Failed to load event"
	MsgThanks      = "Thank you for voting!"
	MsgSelected    = "Selected %d/%d"
	MsgMaxSelected = "You can pick at most %d"
	MsgBallots     = "%s ballots"
)

var catalog = map[language.Tag]map[string]string{
	Vietnamese: {
		MsgOpensIn:     "Bình chọn mở sau %s",
		MsgOpen:        "Bình chọn đang mở - chọn tối đa %d",
		MsgClosed:      "Bình chọn đã đóng",
		MsgLoadFailed:  "Không tải được sự kiện",
		MsgThanks:      "Cảm ơn bạn đã bình chọn!",
		MsgSelected:    "Đã chọn %d/%d",
		MsgMaxSelected: "Bạn chỉ được chọn tối đa %d",
		MsgBallots:     "%s phiếu bầu",
	},
	English: {
		MsgOpensIn:     "Voting opens in %s",
		MsgOpen:        "Voting is open - pick up to %d",
		MsgClosed:      "Voting is closed",
		MsgLoadFailed:  "Failed to load event",
		MsgThanks:      "Thank you for voting!",
		MsgSelected:    "Selected %d/%d",
		MsgMaxSelected: "You can pick at most %d",
		MsgBallots:     "%s ballots",
	},
	Chinese: {
		MsgOpensIn:     "投票将在 %s 后开始",
		MsgOpen:        "投票进行中 - 最多选择 %d 项",
		MsgClosed:      "投票已结束",
		MsgLoadFailed:  "无法加载活动",
		MsgThanks:      "感谢您的投票！",
		MsgSelected:    "已选择 %d/%d",
		MsgMaxSelected: "最多只能选择 %d 项",
		MsgBallots:     "%s 张选票",
	},
}

func init() {
	for tag, messages := range catalog {
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}
