package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrPermissionDenied  ErrCode = "PERMISSION_DENIED"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrNotEnrolled     ErrCode = "NOT_ENROLLED"
	ErrAlreadyEnrolled ErrCode = "ALREADY_ENROLLED"
	ErrCourseNotFound  ErrCode = "COURSE_NOT_FOUND"

	// ─── Quiz & attempts ───────────────────────────────────────────────
	ErrQuizNotFound           ErrCode = "QUIZ_NOT_FOUND"
	ErrAttemptNotFound        ErrCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptNotInProgress   ErrCode = "ATTEMPT_NOT_IN_PROGRESS"
	ErrAttemptExpired         ErrCode = "ATTEMPT_EXPIRED"
	ErrAttemptLimitReached    ErrCode = "ATTEMPT_LIMIT_REACHED"
	ErrLessonLocked           ErrCode = "LESSON_LOCKED"
	ErrLessonAlreadyCompleted ErrCode = "LESSON_ALREADY_COMPLETED"
	ErrFinalNotStartable      ErrCode = "FINAL_QUIZ_NOT_STARTABLE"
	ErrFinalAlreadyPassed     ErrCode = "FINAL_QUIZ_ALREADY_PASSED"
	ErrEnrollmentRequired     ErrCode = "ENROLLMENT_REQUIRED"
	ErrEnrollmentMismatch     ErrCode = "ENROLLMENT_MISMATCH"
	ErrQuizHasNoQuestions     ErrCode = "QUIZ_HAS_NO_QUESTIONS"

	// ─── Certificates ──────────────────────────────────────────────────
	ErrCertificateNotFound ErrCode = "CERTIFICATE_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email atau kata sandi salah."
	case ErrSessionActive:
		return "Anda sudah login di perangkat lain."
	case ErrSessionInvalidated:
		return "Sesi Anda telah berakhir. Silakan login kembali."
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."
	case ErrPermissionDenied:
		return "Izin ditolak."
	case ErrStudentAccessOnly:
		return "Sumber daya ini terbatas untuk peserta kursus."
	case ErrAdminAccessOnly:
		return "Sumber daya ini terbatas untuk administrator."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrConflict:
		return "Sumber daya sudah ada."

	// ─── Enrollment ────────────────────────────────────────────────────
	case ErrNotEnrolled:
		return "Anda belum terdaftar pada kursus ini."
	case ErrAlreadyEnrolled:
		return "Anda sudah terdaftar pada kursus ini."
	case ErrCourseNotFound:
		return "Kursus tidak ditemukan."

	// ─── Quiz & attempts ───────────────────────────────────────────────
	case ErrQuizNotFound:
		return "Kuis tidak ditemukan."
	case ErrAttemptNotFound:
		return "Percobaan kuis tidak ditemukan."
	case ErrAttemptNotInProgress:
		return "Percobaan kuis ini sudah selesai."
	case ErrAttemptExpired:
		return "Waktu pengerjaan kuis sudah habis. Percobaan ini dinyatakan gagal."
	case ErrAttemptLimitReached:
		return "Batas jumlah percobaan untuk kuis ini sudah tercapai."
	case ErrLessonLocked:
		return "Materi ini masih terkunci. Selesaikan materi sebelumnya terlebih dahulu."
	case ErrLessonAlreadyCompleted:
		return "Materi ini sudah diselesaikan. Kuis tidak dapat diulang."
	case ErrFinalNotStartable:
		return "Ujian akhir belum dapat dimulai. Selesaikan semua materi terlebih dahulu."
	case ErrFinalAlreadyPassed:
		return "Anda sudah lulus ujian akhir kursus ini."
	case ErrEnrollmentRequired:
		return "ID pendaftaran kursus diperlukan untuk kuis materi."
	case ErrEnrollmentMismatch:
		return "ID pendaftaran tidak sesuai dengan kuis ini."
	case ErrQuizHasNoQuestions:
		return "Kuis ini tidak memiliki pertanyaan."

	// ─── Certificates ──────────────────────────────────────────────────
	case ErrCertificateNotFound:
		return "Sertifikat tidak ditemukan."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
