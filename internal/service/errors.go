package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid           = errors.New("参数错误")
	ErrUserNotFound           = errors.New("用户不存在")
	ErrUserBan                = errors.New("用户已被封禁")
	ErrUserBanSelf            = errors.New("不能封禁自己")
	ErrUserBanAdmin           = errors.New("不能封禁管理员")
	ErrUserEmailExist         = errors.New("邮箱已注册")
	ErrUserUsernameExist      = errors.New("用户名已存在")
	ErrPasswordIncorrect      = errors.New("密码错误")
	ErrFileNotSupported       = errors.New("不支持的文件类型")
	ErrPostNotFound           = errors.New("帖子不存在")
	ErrPostNotAuthor          = errors.New("只能操作自己的帖子")
	ErrCommentNotFound        = errors.New("评论不存在")
	ErrActionDuplicate        = errors.New("重复操作")
	ErrCommunityNotFound      = errors.New("社区不存在")
	ErrCommunityNameExist     = errors.New("社区名称已存在")
	ErrMemberNotFound         = errors.New("成员不存在")
	ErrMemberExist            = errors.New("已是社区成员")
	ErrMemberBanned           = errors.New("成员已被封禁")
	ErrMemberNotPending       = errors.New("成员不在待审批状态")
	ErrOwnerImmutable         = errors.New("不能变更社区所有者")
	ErrOwnerCannotLeave       = errors.New("所有者不能退出社区")
	ErrPermissionDenied       = errors.New("无权执行该操作")
	ErrReportNotFound         = errors.New("举报不存在")
	ErrAlertNotFound          = errors.New("预警不存在")
	ErrPeriodInvalid          = errors.New("无效的统计周期")
	UnauthorizedError         = errors.New("权限不足")
	UnExpectedError           = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrUserNotFound:       NotFound,
	ErrUserBan:            Unauthorized,
	ErrUserBanSelf:        Unauthorized,
	ErrUserBanAdmin:       Unauthorized,
	ErrUserEmailExist:     BadRequest,
	ErrUserUsernameExist:  BadRequest,
	ErrPasswordIncorrect:  Unauthorized,
	ErrFileNotSupported:   BadRequest,
	ErrPostNotFound:       NotFound,
	ErrPostNotAuthor:      Forbidden,
	ErrCommentNotFound:    NotFound,
	ErrActionDuplicate:    BadRequest,
	ErrCommunityNotFound:  NotFound,
	ErrCommunityNameExist: BadRequest,
	ErrMemberNotFound:     NotFound,
	ErrMemberExist:        BadRequest,
	ErrMemberBanned:       Forbidden,
	ErrMemberNotPending:   BadRequest,
	ErrOwnerImmutable:     BadRequest,
	ErrOwnerCannotLeave:   BadRequest,
	ErrPermissionDenied:   Forbidden,
	ErrReportNotFound:     NotFound,
	ErrAlertNotFound:      NotFound,
	ErrPeriodInvalid:      BadRequest,
	UnauthorizedError:     Unauthorized,
	UnExpectedError:       InternalServerError,
}
