package services

// Client facing messages.
const (
	MsgPasswordMismatch = "비밀번호가 일치하지 않습니다."

	MsgPostList          = "게시글을 가져오는 중 오류가 발생했습니다."
	MsgPostPasswordEmpty = "비밀번호는 필수 입력 사항입니다."
	MsgPostCreate        = "게시글 생성 중 오류가 발생했습니다."
	MsgPostNotFound      = "게시글을 찾을 수 없습니다."
	MsgPostUpdate        = "게시글 수정 중 오류가 발생했습니다."
	MsgPostDelete        = "게시글 삭제 중 오류가 발생했습니다."

	MsgCommentList          = "댓글을 가져오는 중 오류가 발생했습니다."
	MsgCommentRequired      = "내용과 작성자 이름은 필수 입력 사항입니다."
	MsgCommentParentMissing = "부모 댓글을 찾을 수 없습니다."
	MsgCommentCreate        = "댓글 생성 중 오류가 발생했습니다."
	MsgCommentNotFound      = "댓글을 찾을 수 없습니다."
	MsgCommentUpdate        = "댓글 수정 중 오류가 발생했습니다."
	MsgCommentDelete        = "댓글 삭제 중 오류가 발생했습니다."
)
