package service

// User facing field messages
const (
	msgIdentificationRequired = "La identificación es obligatoria"
	msgIdentificationEmpty    = "La identificación no puede estar vacía"
	msgIdentificationFormat   = "La identificación debe tener al menos 8 dígitos y contener solo números"
	msgIdentificationTooLong  = "La identificación no puede exceder 20 dígitos"
	msgFirstNameRequired      = "El nombre es obligatorio"
	msgFirstNameEmpty         = "El nombre no puede estar vacío"
	msgFirstNameShort         = "El nombre debe tener al menos 2 caracteres"
	msgFirstNameTooLong       = "El nombre no puede exceder 100 caracteres"
	msgLastNameRequired       = "El apellido es obligatorio"
	msgLastNameEmpty          = "El apellido no puede estar vacío"
	msgLastNameShort          = "El apellido debe tener al menos 2 caracteres"
	msgLastNameTooLong        = "El apellido no puede exceder 100 caracteres"
	msgPasswordRequired       = "La contraseña es obligatoria"
	msgPasswordEmpty          = "La contraseña no puede estar vacía"
	msgPasswordWeak           = "La contraseña debe tener al menos 8 caracteres, incluyendo mayúsculas, minúsculas y números"
	msgCurrentPasswordMissing = "La contraseña actual es obligatoria"
	msgCurrentPasswordWrong   = "La contraseña actual es incorrecta"
	msgNewPasswordWeak        = "La nueva contraseña debe tener al menos 8 caracteres, incluyendo mayúsculas, minúsculas y números"

	msgTitleRequired    = "El título es obligatorio"
	msgTitleEmpty       = "El título no puede estar vacío"
	msgTitleTooLong     = "El título no puede exceder 100 caracteres"
	msgDescriptionShort = "La descripción debe tener al menos 10 caracteres"
	msgDueDateInvalid   = "Formato de fecha inválido. Use YYYY-MM-DD o la fecha debe ser futura"

	// conflicts
	MsgUserExists          = "El usuario ya existe"
	MsgUserIdentification  = "Ya existe otro usuario con esa identificación"
	MsgIdentificationInUse = "La identificación ya está en uso"
	MsgAdminIdentification = "La identificación ya está en uso por otro administrador."
	MsgTaskTitleTaken      = "Ya tienes una tarea con este título"
)

// Field names as they appear in request bodies
const (
	FieldIdentification  = "identificacion"
	FieldFirstName       = "nombre"
	FieldLastName        = "apellido"
	FieldPassword        = "contrasena"
	FieldCurrentPassword = "contrasena_actual"
	FieldNewPassword     = "nueva_contrasena"
	FieldTitle           = "titulo"
	FieldDescription     = "descripcion"
	FieldDueDate         = "fecha_limite"
)
